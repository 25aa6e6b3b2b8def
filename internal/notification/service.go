// FrancescoMazzola | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service fans out in-app notifications. Delivery is best effort: failures
// are logged and never fail the operation that triggered them.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() int64
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  func() int64 { return time.Now().Unix() },
	}
}

// AccessGranted notifies the user who received a new room grant.
func (s *Service) AccessGranted(
	ctx context.Context,
	userID, roomID string,
	role string,
) {
	message := fmt.Sprintf("You were granted %s access to a data room", role)
	s.create(ctx, &Notification{
		UserID:     userID,
		DataRoomID: &roomID,
		Type:       TypeAccessGranted,
		Title:      "Data room access granted",
		Message:    &message,
	})
}

// FileUploaded notifies every room member except the uploader.
func (s *Service) FileUploaded(
	ctx context.Context,
	actorID, roomID, fileName string,
) {
	members, err := s.repo.RoomMemberIDs(ctx, roomID)
	if err != nil {
		s.log.WarnContext(ctx, "notification fan-out skipped",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()),
		)
		return
	}

	message := fmt.Sprintf("%q was uploaded", fileName)
	for _, memberID := range members {
		if memberID == actorID {
			continue
		}
		s.create(ctx, &Notification{
			UserID:     memberID,
			DataRoomID: &roomID,
			Type:       TypeFileUploaded,
			Title:      "New file in data room",
			Message:    &message,
		})
	}
}

func (s *Service) create(ctx context.Context, n *Notification) {
	n.ID = uuid.New().String()
	n.CreatedAt = s.now()

	if err := s.repo.Create(ctx, n); err != nil {
		s.log.WarnContext(ctx, "notification dropped",
			slog.String("user_id", n.UserID),
			slog.String("type", string(n.Type)),
			slog.String("error", err.Error()),
		)
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID, unreadOnly)
}

// MarkRead flips the given notifications to read. Ids belonging to other
// users are ignored.
func (s *Service) MarkRead(
	ctx context.Context,
	userID string,
	ids []string,
) error {
	return s.repo.MarkRead(ctx, userID, ids)
}

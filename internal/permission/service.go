// FrancescoMazzola | 2026
// service.go

package permission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

// Notifier lets the grant path emit a notification without importing the
// notification package directly.
type Notifier interface {
	AccessGranted(ctx context.Context, userID, roomID string, role string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() int64
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// Resolve returns the permission row for the pair, or nil when none exists.
// Absence is an answer, not an error; expired grants resolve as absent.
func (s *Service) Resolve(
	ctx context.Context,
	userID, roomID string,
) (*Permission, error) {
	perm, err := s.repo.Get(ctx, userID, roomID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if perm.Expired(s.now()) {
		return nil, nil
	}

	return perm, nil
}

// Grant creates or replaces the permission row for req.UserID. The granter
// must hold the edit capability in the room. Flags default from the role and
// explicit flags in the request override the defaults.
func (s *Service) Grant(
	ctx context.Context,
	roomID string,
	req GrantRequest,
) (*Permission, error) {
	granter, err := s.Resolve(ctx, req.GrantedBy, roomID)
	if err != nil {
		return nil, err
	}
	if granter == nil || !granter.Edit {
		return nil, fmt.Errorf("grant access: %w", core.ErrForbidden)
	}

	role := Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf(
			"grant access: invalid role %q: %w",
			req.Role,
			core.ErrInvalidInput,
		)
	}

	perm := s.buildGrant(roomID, role, req)

	if err := s.repo.Upsert(ctx, perm); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.AccessGranted(ctx, perm.UserID, roomID, string(perm.Role))
	}

	return perm, nil
}

// GrantCreator writes the all-capabilities Creator row for a freshly created
// room. Used by room creation inside its transaction, so it takes a
// repository bound to the transaction rather than the service's own.
func GrantCreator(
	ctx context.Context,
	repo Repository,
	roomID, creatorID string,
	now int64,
) error {
	perm := &Permission{
		UserID:            creatorID,
		DataRoomID:        roomID,
		Role:              RoleCreator,
		Capabilities:      DefaultCapabilities(RoleCreator),
		WatermarkRequired: true,
		CreatedBy:         creatorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	return repo.Upsert(ctx, perm)
}

func (s *Service) buildGrant(
	roomID string,
	role Role,
	req GrantRequest,
) *Permission {
	now := s.now()
	caps := DefaultCapabilities(role)

	if req.CanView != nil {
		caps.View = *req.CanView
	}
	if req.CanUpload != nil {
		caps.Upload = *req.CanUpload
	}
	if req.CanDownload != nil {
		caps.Download = *req.CanDownload
	}
	if req.CanEdit != nil {
		caps.Edit = *req.CanEdit
	}
	if req.CanDelete != nil {
		caps.Delete = *req.CanDelete
	}
	if req.AIAccess != nil {
		caps.AIAccess = *req.AIAccess
	}

	watermark := true
	if req.WatermarkRequired != nil {
		watermark = *req.WatermarkRequired
	}

	return &Permission{
		UserID:            req.UserID,
		DataRoomID:        roomID,
		Role:              role,
		Capabilities:      caps,
		WatermarkRequired: watermark,
		ExpiresAt:         req.ExpiresAt,
		CreatedBy:         req.GrantedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Revoke removes the grant. The caller must hold the edit capability.
func (s *Service) Revoke(
	ctx context.Context,
	roomID, targetUserID, requesterID string,
) error {
	requester, err := s.Resolve(ctx, requesterID, roomID)
	if err != nil {
		return err
	}
	if requester == nil || !requester.Edit {
		return fmt.Errorf("revoke access: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, targetUserID, roomID)
}

// ListRoomMembers returns every grant in the room. The requester needs the
// view capability.
func (s *Service) ListRoomMembers(
	ctx context.Context,
	roomID, requesterID string,
) ([]Permission, error) {
	requester, err := s.Resolve(ctx, requesterID, roomID)
	if err != nil {
		return nil, err
	}
	if requester == nil || !requester.View {
		return nil, fmt.Errorf("list members: %w", core.ErrForbidden)
	}

	return s.repo.ListByRoom(ctx, roomID)
}

func (s *Service) ListUserGrants(
	ctx context.Context,
	userID string,
) ([]Permission, error) {
	return s.repo.ListByUser(ctx, userID)
}

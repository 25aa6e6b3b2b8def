// FrancescoMazzola | 2026
// service.go

package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

const tokenBytes = 32

type Service struct {
	repo  Repository
	perms *permission.Service
	log   *slog.Logger
	now   func() int64
}

func NewService(
	repo Repository,
	perms *permission.Service,
	log *slog.Logger,
) *Service {
	return &Service{
		repo:  repo,
		perms: perms,
		log:   log,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// CreateLink mints a share token for the room. The creator needs the edit
// capability. The cleartext token appears only in the response; the store
// keeps a SHA-256 hash and, when a password is set, an argon2id hash of it.
func (s *Service) CreateLink(
	ctx context.Context,
	roomID string,
	req CreateLinkRequest,
) (*CreateLinkResponse, error) {
	perm, err := s.perms.Resolve(ctx, req.UserID, roomID)
	if err != nil {
		return nil, err
	}
	if perm == nil || !perm.Edit {
		return nil, fmt.Errorf("create shared link: %w", core.ErrForbidden)
	}

	token, err := core.GenerateSecureToken(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("create shared link: %w", err)
	}

	link := &SharedLink{
		ID:         uuid.New().String(),
		DataRoomID: roomID,
		TokenHash:  core.HashToken(token),
		MaxUses:    req.MaxUses,
		ExpiresAt:  req.ExpiresAt,
		Rights:     req.Rights,
		CreatedBy:  req.UserID,
		IsActive:   true,
		CreatedAt:  s.now(),
	}

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("create shared link: %w", err)
		}
		link.PasswordHash = &hash
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "shared link created",
		slog.String("link_id", link.ID),
		slog.String("room_id", roomID),
	)

	return &CreateLinkResponse{
		ID:    link.ID,
		Token: token,
		Link:  ToLinkResponse(link),
	}, nil
}

// Redeem resolves a token to its room and counts the use. Expired, exhausted
// and revoked links fail with a forbidden error, as does a wrong password.
// An unknown token also resolves to forbidden so probes cannot tell the
// difference.
func (s *Service) Redeem(
	ctx context.Context,
	req RedeemLinkRequest,
) (*RedeemLinkResponse, error) {
	link, err := s.repo.GetByTokenHash(ctx, core.HashToken(req.Token))
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("redeem link: %w", core.ErrForbidden)
	}
	if err != nil {
		return nil, err
	}

	if !link.Usable(s.now()) {
		return nil, fmt.Errorf("redeem link: %w", core.ErrForbidden)
	}

	if link.PasswordHash != nil {
		if req.Password == nil {
			return nil, fmt.Errorf("redeem link: %w", core.ErrForbidden)
		}
		ok, err := core.VerifyPassword(*req.Password, *link.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("redeem link: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("redeem link: %w", core.ErrForbidden)
		}
	}

	if err := s.repo.RecordUse(ctx, link.ID, s.now()); err != nil {
		return nil, err
	}

	return &RedeemLinkResponse{
		DataRoomID: link.DataRoomID,
		Rights:     link.Rights,
	}, nil
}

// ListRoomLinks requires the edit capability.
func (s *Service) ListRoomLinks(
	ctx context.Context,
	roomID, userID string,
) ([]SharedLink, error) {
	perm, err := s.perms.Resolve(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if perm == nil || !perm.Edit {
		return nil, fmt.Errorf("list shared links: %w", core.ErrForbidden)
	}

	return s.repo.ListByRoom(ctx, roomID)
}

// RevokeLink deactivates the link. Requires the edit capability in the
// given room; a link belonging to a different room is not found.
func (s *Service) RevokeLink(
	ctx context.Context,
	roomID, linkID, userID string,
) error {
	perm, err := s.perms.Resolve(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if perm == nil || !perm.Edit {
		return fmt.Errorf("revoke shared link: %w", core.ErrForbidden)
	}

	return s.repo.Revoke(ctx, linkID, roomID)
}

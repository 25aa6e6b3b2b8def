// FrancescoMazzola | 2026
// service.go

package dataroom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

const recentActivityWindow = 24 * time.Hour

type Service struct {
	db    *sqlx.DB
	repo  Repository
	perms *permission.Service
	log   *slog.Logger
	now   func() int64
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	perms *permission.Service,
	log *slog.Logger,
) *Service {
	return &Service{
		db:    db,
		repo:  repo,
		perms: perms,
		log:   log,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// CreateRoom inserts the room, grants the creator the full-capability Creator
// role and attaches the requested tags, all in one transaction. Tags are
// matched by exact name and created on first use.
func (s *Service) CreateRoom(
	ctx context.Context,
	req CreateRoomRequest,
) (string, error) {
	roomID := uuid.New().String()
	now := s.now()

	room := &DataRoom{
		ID:           roomID,
		Name:         req.Name,
		CreatedBy:    req.CreatorID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastModified: now,
	}
	if req.Description != "" {
		room.Description = &req.Description
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		if err := txRepo.Create(ctx, room); err != nil {
			return err
		}

		err := permission.GrantCreator(
			ctx,
			permission.NewRepository(tx),
			roomID,
			req.CreatorID,
			now,
		)
		if err != nil {
			return fmt.Errorf("grant creator: %w", err)
		}

		for _, name := range req.Tags {
			if err := s.attachTag(ctx, txRepo, roomID, name, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "data room created",
		slog.String("room_id", roomID),
		slog.String("creator_id", req.CreatorID),
	)

	return roomID, nil
}

func (s *Service) attachTag(
	ctx context.Context,
	repo Repository,
	roomID, name string,
	now int64,
) error {
	tag, err := repo.FindTagByName(ctx, name)
	if errors.Is(err, core.ErrNotFound) {
		tag = &Tag{ID: uuid.New().String(), Name: name, CreatedAt: now}
		if err := repo.CreateTag(ctx, tag); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return repo.LinkTag(ctx, roomID, tag.ID)
}

// ListRoomsForUser returns the rooms the user holds a grant in, newest
// activity first, with per-room tag and content counts.
func (s *Service) ListRoomsForUser(
	ctx context.Context,
	userID string,
) ([]RoomSummary, error) {
	rooms, err := s.repo.ListForUser(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, rooms)
}

// ListAllRooms returns every room without a permission filter. Role is left
// empty in the summaries.
func (s *Service) ListAllRooms(ctx context.Context) ([]RoomSummary, error) {
	rooms, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, rooms)
}

func (s *Service) summarize(
	ctx context.Context,
	rooms []RoomWithRole,
) ([]RoomSummary, error) {
	ids := make([]string, len(rooms))
	for i, room := range rooms {
		ids[i] = room.ID
	}

	tags, err := s.repo.TagsForRooms(ctx, ids)
	if err != nil {
		return nil, err
	}
	fileCounts, err := s.repo.FileCountsForRooms(ctx, ids)
	if err != nil {
		return nil, err
	}
	folderCounts, err := s.repo.FolderCountsForRooms(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]RoomSummary, len(rooms))
	for i, room := range rooms {
		roomTags := tags[room.ID]
		if roomTags == nil {
			roomTags = []string{}
		}
		summaries[i] = RoomSummary{
			ID:           room.ID,
			Name:         room.Name,
			Description:  room.Description,
			CreatorID:    room.CreatedBy,
			Role:         room.Role,
			FileCount:    fileCounts[room.ID],
			FolderCount:  folderCounts[room.ID],
			Tags:         roomTags,
			CreatedAt:    room.CreatedAt,
			LastModified: room.LastModified,
		}
	}

	return summaries, nil
}

// GetRoom returns the room row plus the requesting user's role. An unknown
// room is a not-found error even when the user holds no grant, so probing
// cannot distinguish missing rooms from forbidden ones by error order.
func (s *Service) GetRoom(
	ctx context.Context,
	roomID, userID string,
) (*RoomSummary, error) {
	room, err := s.repo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// Display-only default; a missing grant carries no capabilities.
	role := string(permission.RoleViewer)
	if userID != "" {
		perm, err := s.perms.Resolve(ctx, userID, roomID)
		if err != nil {
			return nil, err
		}
		if perm != nil {
			role = string(perm.Role)
		}
	}

	summaries, err := s.summarize(ctx, []RoomWithRole{{DataRoom: *room, Role: role}})
	if err != nil {
		return nil, err
	}

	return &summaries[0], nil
}

func (s *Service) ListTags(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListTagNames(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}

	return names, nil
}

// Stats returns dashboard totals. Recent activity counts access-log entries
// from the trailing 24 hours.
func (s *Service) Stats(ctx context.Context) (StatsResponse, error) {
	since := s.now() - int64(recentActivityWindow.Seconds())
	return s.repo.Counts(ctx, since)
}

// GetWatermark requires the view capability in the room.
func (s *Service) GetWatermark(
	ctx context.Context,
	roomID, userID string,
) (*Watermark, error) {
	if _, err := s.repo.Get(ctx, roomID); err != nil {
		return nil, err
	}

	perm, err := s.perms.Resolve(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if perm == nil || !perm.View {
		return nil, fmt.Errorf("get watermark: %w", core.ErrForbidden)
	}

	return s.repo.GetWatermark(ctx, roomID)
}

// SetWatermark creates or replaces the room's watermark template. Requires
// the edit capability.
func (s *Service) SetWatermark(
	ctx context.Context,
	roomID, userID string,
	req WatermarkRequest,
) (*Watermark, error) {
	if _, err := s.repo.Get(ctx, roomID); err != nil {
		return nil, err
	}

	perm, err := s.perms.Resolve(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if perm == nil || !perm.Edit {
		return nil, fmt.Errorf("set watermark: %w", core.ErrForbidden)
	}

	wm := &Watermark{
		ID:         uuid.New().String(),
		DataRoomID: roomID,
		Template:   req.Template,
		Position:   req.Position,
		Opacity:    req.Opacity,
		IsActive:   true,
		CreatedAt:  s.now(),
	}
	if wm.Position == "" {
		wm.Position = "center"
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}

	if err := s.repo.UpsertWatermark(ctx, wm); err != nil {
		return nil, err
	}

	return wm, nil
}

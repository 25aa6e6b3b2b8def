// FrancescoMazzola | 2026
// repository.go

package notification

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
	RoomMemberIDs(ctx context.Context, roomID string) ([]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, data_room_id, type, title,
		                           message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.DataRoomID,
		n.Type,
		n.Title,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
) ([]Notification, error) {
	query := `
		SELECT id, user_id, data_room_id, type, title, message, is_read,
		       created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC`

	var notifications []Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

func (r *repository) MarkRead(
	ctx context.Context,
	userID string,
	ids []string,
) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		UPDATE notifications
		SET is_read = 1
		WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}

	return nil
}

func (r *repository) RoomMemberIDs(
	ctx context.Context,
	roomID string,
) ([]string, error) {
	query := `
		SELECT user_id
		FROM user_data_room_permissions
		WHERE data_room_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, roomID); err != nil {
		return nil, fmt.Errorf("room member ids: %w", err)
	}

	return ids, nil
}

// FrancescoMazzola | 2026
// repository.go

package permission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, perm *Permission) error
	Get(ctx context.Context, userID, roomID string) (*Permission, error)
	ListByRoom(ctx context.Context, roomID string) ([]Permission, error)
	ListByUser(ctx context.Context, userID string) ([]Permission, error)
	Delete(ctx context.Context, userID, roomID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const permissionColumns = `
	user_id, data_room_id, role, can_view, can_upload, can_download,
	can_edit, can_delete, ai_access, watermark_required, expires_at,
	created_by, created_at, updated_at`

// Upsert inserts the permission row or, when the (user_id, data_room_id)
// pair already exists, overwrites it. Last write wins.
func (r *repository) Upsert(ctx context.Context, perm *Permission) error {
	query := `
		INSERT INTO user_data_room_permissions (` + permissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, data_room_id) DO UPDATE SET
			role = excluded.role,
			can_view = excluded.can_view,
			can_upload = excluded.can_upload,
			can_download = excluded.can_download,
			can_edit = excluded.can_edit,
			can_delete = excluded.can_delete,
			ai_access = excluded.ai_access,
			watermark_required = excluded.watermark_required,
			expires_at = excluded.expires_at,
			created_by = excluded.created_by,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		perm.UserID,
		perm.DataRoomID,
		perm.Role,
		perm.View,
		perm.Upload,
		perm.Download,
		perm.Edit,
		perm.Delete,
		perm.AIAccess,
		perm.WatermarkRequired,
		perm.ExpiresAt,
		perm.CreatedBy,
		perm.CreatedAt,
		perm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}

	return nil
}

func (r *repository) Get(
	ctx context.Context,
	userID, roomID string,
) (*Permission, error) {
	query := `
		SELECT ` + permissionColumns + `
		FROM user_data_room_permissions
		WHERE user_id = $1 AND data_room_id = $2`

	var perm Permission
	err := r.db.GetContext(ctx, &perm, query, userID, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get permission: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return &perm, nil
}

func (r *repository) ListByRoom(
	ctx context.Context,
	roomID string,
) ([]Permission, error) {
	query := `
		SELECT ` + permissionColumns + `
		FROM user_data_room_permissions
		WHERE data_room_id = $1
		ORDER BY created_at ASC`

	var perms []Permission
	if err := r.db.SelectContext(ctx, &perms, query, roomID); err != nil {
		return nil, fmt.Errorf("list room permissions: %w", err)
	}

	return perms, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Permission, error) {
	query := `
		SELECT ` + permissionColumns + `
		FROM user_data_room_permissions
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var perms []Permission
	if err := r.db.SelectContext(ctx, &perms, query, userID); err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}

	return perms, nil
}

func (r *repository) Delete(
	ctx context.Context,
	userID, roomID string,
) error {
	query := `
		DELETE FROM user_data_room_permissions
		WHERE user_id = $1 AND data_room_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, roomID)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete permission: %w", core.ErrNotFound)
	}

	return nil
}

// FrancescoMazzola | 2026
// repository.go

package sharing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

const linkColumns = `id, data_room_id, token_hash, password_hash, max_uses,
	current_uses, expires_at, rights, created_by, is_active, created_at,
	last_used_at`

type Repository interface {
	Create(ctx context.Context, link *SharedLink) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*SharedLink, error)
	ListByRoom(ctx context.Context, roomID string) ([]SharedLink, error)
	RecordUse(ctx context.Context, id string, now int64) error
	Revoke(ctx context.Context, id, roomID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, link *SharedLink) error {
	query := `
		INSERT INTO shared_links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		link.ID,
		link.DataRoomID,
		link.TokenHash,
		link.PasswordHash,
		link.MaxUses,
		link.CurrentUses,
		link.ExpiresAt,
		link.Rights,
		link.CreatedBy,
		link.IsActive,
		link.CreatedAt,
		link.LastUsedAt,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create shared link: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create shared link: %w", err)
	}

	return nil
}

func (r *repository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*SharedLink, error) {
	query := `SELECT ` + linkColumns + ` FROM shared_links WHERE token_hash = $1`

	var link SharedLink
	err := r.db.GetContext(ctx, &link, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get shared link: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get shared link: %w", err)
	}

	return &link, nil
}

func (r *repository) ListByRoom(
	ctx context.Context,
	roomID string,
) ([]SharedLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM shared_links
		WHERE data_room_id = $1
		ORDER BY created_at DESC`

	var links []SharedLink
	if err := r.db.SelectContext(ctx, &links, query, roomID); err != nil {
		return nil, fmt.Errorf("list shared links: %w", err)
	}

	return links, nil
}

func (r *repository) RecordUse(
	ctx context.Context,
	id string,
	now int64,
) error {
	query := `
		UPDATE shared_links
		SET current_uses = current_uses + 1, last_used_at = $1
		WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, now, id); err != nil {
		return fmt.Errorf("record link use: %w", err)
	}

	return nil
}

// Revoke matches on both id and room so a caller authorized in one room
// cannot deactivate a link belonging to another.
func (r *repository) Revoke(ctx context.Context, id, roomID string) error {
	query := `
		UPDATE shared_links
		SET is_active = 0
		WHERE id = $1 AND data_room_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, roomID)
	if err != nil {
		return fmt.Errorf("revoke shared link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("revoke shared link: %w", core.ErrNotFound)
	}

	return nil
}

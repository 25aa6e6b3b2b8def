// FrancescoMazzola | 2026
// repository.go

package ai

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

const queryColumns = `id, user_id, data_room_id, query_text, response_text,
	files_referenced, processing_status, processing_time_ms, created_at`

type Repository interface {
	Create(ctx context.Context, query *Query) error
	Get(ctx context.Context, id string) (*Query, error)
	ListByRoom(ctx context.Context, roomID string, limit int) ([]Query, error)
	SetResult(ctx context.Context, id string, status Status, response *string, elapsedMs *int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, query *Query) error {
	stmt := `
		INSERT INTO ai_queries (` + queryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, stmt,
		query.ID,
		query.UserID,
		query.DataRoomID,
		query.QueryText,
		query.ResponseText,
		query.FilesReferenced,
		query.ProcessingStatus,
		query.ProcessingTimeMs,
		query.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ai query: %w", err)
	}

	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Query, error) {
	stmt := `SELECT ` + queryColumns + ` FROM ai_queries WHERE id = $1`

	var query Query
	err := r.db.GetContext(ctx, &query, stmt, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get ai query: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get ai query: %w", err)
	}

	return &query, nil
}

func (r *repository) ListByRoom(
	ctx context.Context,
	roomID string,
	limit int,
) ([]Query, error) {
	stmt := `
		SELECT ` + queryColumns + `
		FROM ai_queries
		WHERE data_room_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var queries []Query
	if err := r.db.SelectContext(ctx, &queries, stmt, roomID, limit); err != nil {
		return nil, fmt.Errorf("list ai queries: %w", err)
	}

	return queries, nil
}

func (r *repository) SetResult(
	ctx context.Context,
	id string,
	status Status,
	response *string,
	elapsedMs *int64,
) error {
	stmt := `
		UPDATE ai_queries
		SET processing_status = $1, response_text = $2, processing_time_ms = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, stmt, status, response, elapsedMs, id)
	if err != nil {
		return fmt.Errorf("set ai query result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set ai query result: %w", core.ErrNotFound)
	}

	return nil
}

// FrancescoMazzola | 2026
// repository.go

package dataroom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type Repository interface {
	Create(ctx context.Context, room *DataRoom) error
	Get(ctx context.Context, id string) (*DataRoom, error)
	ListForUser(ctx context.Context, userID string, now int64) ([]RoomWithRole, error)
	ListAll(ctx context.Context) ([]RoomWithRole, error)
	FindTagByName(ctx context.Context, name string) (*Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	LinkTag(ctx context.Context, roomID, tagID string) error
	ListTagNames(ctx context.Context) ([]string, error)
	TagsForRooms(ctx context.Context, roomIDs []string) (map[string][]string, error)
	FileCountsForRooms(ctx context.Context, roomIDs []string) (map[string]int, error)
	FolderCountsForRooms(ctx context.Context, roomIDs []string) (map[string]int, error)
	Counts(ctx context.Context, activitySince int64) (StatsResponse, error)
	GetWatermark(ctx context.Context, roomID string) (*Watermark, error)
	UpsertWatermark(ctx context.Context, wm *Watermark) error
}

// RoomWithRole is a room row joined with the requesting user's role, empty
// for unscoped listings.
type RoomWithRole struct {
	DataRoom
	Role string `db:"role"`
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, room *DataRoom) error {
	query := `
		INSERT INTO data_rooms (id, name, description, created_by, is_active,
		                        created_at, updated_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.Name,
		room.Description,
		room.CreatedBy,
		room.IsActive,
		room.CreatedAt,
		room.UpdatedAt,
		room.LastModified,
	)
	if err != nil {
		return fmt.Errorf("create data room: %w", err)
	}

	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*DataRoom, error) {
	query := `
		SELECT id, name, description, created_by, is_active,
		       created_at, updated_at, last_modified
		FROM data_rooms
		WHERE id = $1`

	var room DataRoom
	err := r.db.GetContext(ctx, &room, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get data room: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get data room: %w", err)
	}

	return &room, nil
}

// ListForUser excludes lapsed grants, matching how capability resolution
// treats an expired permission row as absent.
func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	now int64,
) ([]RoomWithRole, error) {
	query := `
		SELECT dr.id, dr.name, dr.description, dr.created_by, dr.is_active,
		       dr.created_at, dr.updated_at, dr.last_modified, p.role
		FROM data_rooms dr
		INNER JOIN user_data_room_permissions p ON dr.id = p.data_room_id
		WHERE p.user_id = $1
		  AND (p.expires_at IS NULL OR p.expires_at > $2)
		ORDER BY dr.last_modified DESC`

	var rooms []RoomWithRole
	if err := r.db.SelectContext(ctx, &rooms, query, userID, now); err != nil {
		return nil, fmt.Errorf("list rooms for user: %w", err)
	}

	return rooms, nil
}

func (r *repository) ListAll(ctx context.Context) ([]RoomWithRole, error) {
	query := `
		SELECT id, name, description, created_by, is_active,
		       created_at, updated_at, last_modified, '' AS role
		FROM data_rooms
		ORDER BY last_modified DESC`

	var rooms []RoomWithRole
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list all rooms: %w", err)
	}

	return rooms, nil
}

func (r *repository) FindTagByName(
	ctx context.Context,
	name string,
) (*Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags WHERE name = $1`

	var tag Tag
	err := r.db.GetContext(ctx, &tag, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find tag: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tag: %w", err)
	}

	return &tag, nil
}

func (r *repository) CreateTag(ctx context.Context, tag *Tag) error {
	query := `
		INSERT INTO tags (id, name, color, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		tag.ID,
		tag.Name,
		tag.Color,
		tag.CreatedAt,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create tag: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

func (r *repository) LinkTag(ctx context.Context, roomID, tagID string) error {
	query := `
		INSERT INTO data_room_tags (data_room_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (data_room_id, tag_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, roomID, tagID); err != nil {
		return fmt.Errorf("link tag: %w", err)
	}

	return nil
}

func (r *repository) ListTagNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM tags ORDER BY name ASC`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return names, nil
}

func (r *repository) TagsForRooms(
	ctx context.Context,
	roomIDs []string,
) (map[string][]string, error) {
	if len(roomIDs) == 0 {
		return map[string][]string{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT drt.data_room_id, t.name
		FROM tags t
		INNER JOIN data_room_tags drt ON t.id = drt.tag_id
		WHERE drt.data_room_id IN (?)
		ORDER BY t.name ASC`, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("tags for rooms: %w", err)
	}

	rows := []struct {
		RoomID string `db:"data_room_id"`
		Name   string `db:"name"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("tags for rooms: %w", err)
	}

	result := make(map[string][]string, len(roomIDs))
	for _, row := range rows {
		result[row.RoomID] = append(result[row.RoomID], row.Name)
	}

	return result, nil
}

func (r *repository) FileCountsForRooms(
	ctx context.Context,
	roomIDs []string,
) (map[string]int, error) {
	return r.countsForRooms(ctx, `
		SELECT data_room_id, COUNT(*) AS n
		FROM files
		WHERE is_active = 1 AND data_room_id IN (?)
		GROUP BY data_room_id`, roomIDs)
}

func (r *repository) FolderCountsForRooms(
	ctx context.Context,
	roomIDs []string,
) (map[string]int, error) {
	return r.countsForRooms(ctx, `
		SELECT data_room_id, COUNT(*) AS n
		FROM folders
		WHERE data_room_id IN (?)
		GROUP BY data_room_id`, roomIDs)
}

func (r *repository) countsForRooms(
	ctx context.Context,
	baseQuery string,
	roomIDs []string,
) (map[string]int, error) {
	if len(roomIDs) == 0 {
		return map[string]int{}, nil
	}

	query, args, err := sqlx.In(baseQuery, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("counts for rooms: %w", err)
	}

	rows := []struct {
		RoomID string `db:"data_room_id"`
		N      int    `db:"n"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("counts for rooms: %w", err)
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.RoomID] = row.N
	}

	return result, nil
}

func (r *repository) Counts(
	ctx context.Context,
	activitySince int64,
) (StatsResponse, error) {
	var stats StatsResponse

	queries := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.TotalRooms, `SELECT COUNT(*) FROM data_rooms`, nil},
		{&stats.TotalFiles, `SELECT COUNT(*) FROM files WHERE is_active = 1`, nil},
		{&stats.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{
			&stats.RecentActivity,
			`SELECT COUNT(*) FROM file_access_logs WHERE created_at > $1`,
			[]any{activitySince},
		},
	}

	for _, q := range queries {
		if err := r.db.GetContext(ctx, q.dest, q.query, q.args...); err != nil {
			return StatsResponse{}, fmt.Errorf("dashboard counts: %w", err)
		}
	}

	return stats, nil
}

func (r *repository) GetWatermark(
	ctx context.Context,
	roomID string,
) (*Watermark, error) {
	query := `
		SELECT id, data_room_id, template, position, opacity, is_active,
		       created_at
		FROM watermarks
		WHERE data_room_id = $1`

	var wm Watermark
	err := r.db.GetContext(ctx, &wm, query, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get watermark: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get watermark: %w", err)
	}

	return &wm, nil
}

func (r *repository) UpsertWatermark(ctx context.Context, wm *Watermark) error {
	query := `
		INSERT INTO watermarks (id, data_room_id, template, position, opacity,
		                        is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (data_room_id) DO UPDATE SET
			template = excluded.template,
			position = excluded.position,
			opacity = excluded.opacity,
			is_active = excluded.is_active`

	_, err := r.db.ExecContext(ctx, query,
		wm.ID,
		wm.DataRoomID,
		wm.Template,
		wm.Position,
		wm.Opacity,
		wm.IsActive,
		wm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert watermark: %w", err)
	}

	return nil
}

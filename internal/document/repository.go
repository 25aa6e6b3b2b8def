// FrancescoMazzola | 2026
// repository.go

package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type Repository interface {
	RoomExists(ctx context.Context, roomID string) (bool, error)
	BumpLastModified(ctx context.Context, roomID string, now int64) error

	CreateFolder(ctx context.Context, folder *Folder) error
	GetFolder(ctx context.Context, id string) (*Folder, error)
	RenameFolder(ctx context.Context, id, name string, now int64) error
	DeleteFolders(ctx context.Context, ids []string) error
	ListFoldersByRoom(ctx context.Context, roomID string) ([]Folder, error)
	SubtreeFolderIDs(ctx context.Context, rootID string) ([]string, error)

	CreateFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, id string) (*File, error)
	RenameFile(ctx context.Context, id, name string, now int64) error
	SoftDeleteFile(ctx context.Context, id string, now int64) error
	ListActiveFilesByRoom(ctx context.Context, roomID string) ([]File, error)
	ListActiveFilesInFolders(ctx context.Context, folderIDs []string) ([]File, error)
	DetachAndDeactivateFiles(ctx context.Context, folderIDs []string, now int64) error

	InsertLog(ctx context.Context, entry *AccessLogEntry) error
	ListLogsByFile(ctx context.Context, fileID string) ([]AccessLogEntry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) RoomExists(
	ctx context.Context,
	roomID string,
) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM data_rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &n, query, roomID); err != nil {
		return false, fmt.Errorf("room exists: %w", err)
	}
	return n > 0, nil
}

func (r *repository) BumpLastModified(
	ctx context.Context,
	roomID string,
	now int64,
) error {
	query := `UPDATE data_rooms SET last_modified = $1, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, now, roomID); err != nil {
		return fmt.Errorf("bump last modified: %w", err)
	}
	return nil
}

func (r *repository) CreateFolder(ctx context.Context, folder *Folder) error {
	query := `
		INSERT INTO folders (id, name, data_room_id, parent_folder_id,
		                     created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		folder.ID,
		folder.Name,
		folder.DataRoomID,
		folder.ParentFolderID,
		folder.CreatedBy,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

func (r *repository) GetFolder(ctx context.Context, id string) (*Folder, error) {
	query := `
		SELECT id, name, data_room_id, parent_folder_id, created_by,
		       created_at, updated_at
		FROM folders
		WHERE id = $1`

	var folder Folder
	err := r.db.GetContext(ctx, &folder, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get folder: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

func (r *repository) RenameFolder(
	ctx context.Context,
	id, name string,
	now int64,
) error {
	query := `UPDATE folders SET name = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, name, now, id)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rename folder: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteFolders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM folders WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}

	return nil
}

func (r *repository) ListFoldersByRoom(
	ctx context.Context,
	roomID string,
) ([]Folder, error) {
	query := `
		SELECT id, name, data_room_id, parent_folder_id, created_by,
		       created_at, updated_at
		FROM folders
		WHERE data_room_id = $1
		ORDER BY name ASC`

	var folders []Folder
	if err := r.db.SelectContext(ctx, &folders, query, roomID); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	return folders, nil
}

// SubtreeFolderIDs returns the root folder id plus every descendant id,
// resolved with a recursive CTE.
func (r *repository) SubtreeFolderIDs(
	ctx context.Context,
	rootID string,
) ([]string, error) {
	query := `
		WITH RECURSIVE subtree (id) AS (
			SELECT id FROM folders WHERE id = $1
			UNION ALL
			SELECT f.id
			FROM folders f
			INNER JOIN subtree s ON f.parent_folder_id = s.id
		)
		SELECT id FROM subtree`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, rootID); err != nil {
		return nil, fmt.Errorf("subtree folder ids: %w", err)
	}

	return ids, nil
}

func (r *repository) CreateFile(ctx context.Context, file *File) error {
	query := `
		INSERT INTO files (id, name, original_name, file_type, file_size,
		                   file_path, mime_type, data_room_id, folder_id,
		                   uploaded_by, version_number, checksum, is_active,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.Name,
		file.OriginalName,
		file.FileType,
		file.FileSize,
		file.FilePath,
		file.MimeType,
		file.DataRoomID,
		file.FolderID,
		file.UploadedBy,
		file.VersionNumber,
		file.Checksum,
		file.IsActive,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

func (r *repository) GetFile(ctx context.Context, id string) (*File, error) {
	query := `
		SELECT id, name, original_name, file_type, file_size, file_path,
		       mime_type, data_room_id, folder_id, uploaded_by,
		       version_number, checksum, is_active, created_at, updated_at
		FROM files
		WHERE id = $1`

	var file File
	err := r.db.GetContext(ctx, &file, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get file: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

func (r *repository) RenameFile(
	ctx context.Context,
	id, name string,
	now int64,
) error {
	query := `UPDATE files SET name = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, name, now, id)
	if err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rename file: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SoftDeleteFile(
	ctx context.Context,
	id string,
	now int64,
) error {
	query := `UPDATE files SET is_active = 0, updated_at = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("soft delete file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("soft delete file: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListActiveFilesByRoom(
	ctx context.Context,
	roomID string,
) ([]File, error) {
	query := `
		SELECT id, name, original_name, file_type, file_size, file_path,
		       mime_type, data_room_id, folder_id, uploaded_by,
		       version_number, checksum, is_active, created_at, updated_at
		FROM files
		WHERE data_room_id = $1 AND is_active = 1
		ORDER BY created_at DESC`

	var files []File
	if err := r.db.SelectContext(ctx, &files, query, roomID); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return files, nil
}

func (r *repository) ListActiveFilesInFolders(
	ctx context.Context,
	folderIDs []string,
) ([]File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, original_name, file_type, file_size, file_path,
		       mime_type, data_room_id, folder_id, uploaded_by,
		       version_number, checksum, is_active, created_at, updated_at
		FROM files
		WHERE folder_id IN (?) AND is_active = 1`, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list files in folders: %w", err)
	}

	var files []File
	if err := r.db.SelectContext(ctx, &files, query, args...); err != nil {
		return nil, fmt.Errorf("list files in folders: %w", err)
	}

	return files, nil
}

// DetachAndDeactivateFiles soft-deletes every active file in the given
// folders and clears folder_id so the folder rows themselves can go.
func (r *repository) DetachAndDeactivateFiles(
	ctx context.Context,
	folderIDs []string,
	now int64,
) error {
	if len(folderIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		UPDATE files
		SET is_active = 0, folder_id = NULL, updated_at = ?
		WHERE folder_id IN (?)`, now, folderIDs)
	if err != nil {
		return fmt.Errorf("deactivate files: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deactivate files: %w", err)
	}

	return nil
}

func (r *repository) InsertLog(
	ctx context.Context,
	entry *AccessLogEntry,
) error {
	query := `
		INSERT INTO file_access_logs (id, user_id, file_id, data_room_id,
		                              action, ip_address, user_agent,
		                              created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.FileID,
		entry.DataRoomID,
		entry.Action,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}

	return nil
}

func (r *repository) ListLogsByFile(
	ctx context.Context,
	fileID string,
) ([]AccessLogEntry, error) {
	query := `
		SELECT id, user_id, file_id, data_room_id, action, ip_address,
		       user_agent, created_at
		FROM file_access_logs
		WHERE file_id = $1
		ORDER BY created_at DESC`

	var entries []AccessLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, fileID); err != nil {
		return nil, fmt.Errorf("list access logs: %w", err)
	}

	return entries, nil
}

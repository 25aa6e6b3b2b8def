// FrancescoMazzola | 2026
// service.go

package document

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/config"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

// maxFolderDepth bounds the ancestor walk used to validate parent
// assignments so a corrupted tree cannot loop the request.
const maxFolderDepth = 64

// Uploader lets the upload path broadcast a notification without importing
// the notification package directly.
type Uploader interface {
	FileUploaded(ctx context.Context, actorID, roomID, fileName string)
}

// RequestMeta carries client details into access-log rows.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Service struct {
	db       *sqlx.DB
	repo     Repository
	perms    *permission.Service
	uploads  config.UploadConfig
	notifier Uploader
	log      *slog.Logger
	now      func() int64
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	perms *permission.Service,
	uploads config.UploadConfig,
	notifier Uploader,
	log *slog.Logger,
) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		perms:    perms,
		uploads:  uploads,
		notifier: notifier,
		log:      log,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// RoomContents returns the room's folder tree and active files, for the room
// details endpoint.
func (s *Service) RoomContents(
	ctx context.Context,
	roomID string,
) ([]FolderResponse, []FileResponse, error) {
	folders, err := s.repo.ListFoldersByRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	files, err := s.repo.ListActiveFilesByRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	return ToFolderResponseList(folders), ToFileResponseList(files), nil
}

func (s *Service) requireCapability(
	ctx context.Context,
	userID, roomID string,
	allowed func(permission.Capabilities) bool,
) error {
	perm, err := s.perms.Resolve(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if perm == nil || !allowed(perm.Capabilities) {
		return fmt.Errorf("room %s: %w", roomID, core.ErrForbidden)
	}
	return nil
}

// CreateFolder requires the edit capability. A parent folder must live in
// the same room, and the parent chain is walked to reject cycles before the
// assignment is accepted.
func (s *Service) CreateFolder(
	ctx context.Context,
	roomID string,
	req CreateFolderRequest,
) (*Folder, error) {
	ok, err := s.repo.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, core.ErrNotFound)
	}

	err = s.requireCapability(ctx, req.UserID, roomID,
		func(c permission.Capabilities) bool { return c.Edit })
	if err != nil {
		return nil, err
	}

	if req.ParentFolderID != nil {
		if err := s.validateParent(ctx, roomID, *req.ParentFolderID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	folder := &Folder{
		ID:             uuid.New().String(),
		Name:           req.Name,
		DataRoomID:     roomID,
		ParentFolderID: req.ParentFolderID,
		CreatedBy:      req.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)
		if err := txRepo.CreateFolder(ctx, folder); err != nil {
			return err
		}
		return txRepo.BumpLastModified(ctx, roomID, now)
	})
	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (s *Service) validateParent(
	ctx context.Context,
	roomID, parentID string,
) error {
	parent, err := s.repo.GetFolder(ctx, parentID)
	if err != nil {
		return fmt.Errorf("parent folder: %w", err)
	}
	if parent.DataRoomID != roomID {
		return fmt.Errorf(
			"parent folder belongs to another room: %w",
			core.ErrInvalidInput,
		)
	}

	seen := map[string]bool{parentID: true}
	current := parent
	for depth := 0; current.ParentFolderID != nil; depth++ {
		if depth >= maxFolderDepth {
			return fmt.Errorf("folder tree too deep: %w", core.ErrInvalidInput)
		}
		next := *current.ParentFolderID
		if seen[next] {
			return fmt.Errorf("folder cycle detected: %w", core.ErrInvalidInput)
		}
		seen[next] = true
		current, err = s.repo.GetFolder(ctx, next)
		if err != nil {
			return fmt.Errorf("parent folder: %w", err)
		}
	}

	return nil
}

// RenameFolder requires the edit capability. Only the name and updated
// timestamp change.
func (s *Service) RenameFolder(
	ctx context.Context,
	folderID string,
	req RenameRequest,
) (*Folder, error) {
	folder, err := s.repo.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	err = s.requireCapability(ctx, req.UserID, folder.DataRoomID,
		func(c permission.Capabilities) bool { return c.Edit })
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)
		if err := txRepo.RenameFolder(ctx, folderID, req.Name, now); err != nil {
			return err
		}
		return txRepo.BumpLastModified(ctx, folder.DataRoomID, now)
	})
	if err != nil {
		return nil, err
	}

	folder.Name = req.Name
	folder.UpdatedAt = now
	return folder, nil
}

// DeleteFolder removes the folder and its entire subtree in one transaction.
// Every active file anywhere under the subtree is soft-deleted and gets one
// delete entry in the access log; the folder rows themselves are removed.
func (s *Service) DeleteFolder(
	ctx context.Context,
	folderID, userID string,
	meta RequestMeta,
) error {
	folder, err := s.repo.GetFolder(ctx, folderID)
	if err != nil {
		return err
	}

	err = s.requireCapability(ctx, userID, folder.DataRoomID,
		func(c permission.Capabilities) bool { return c.Delete })
	if err != nil {
		return err
	}

	now := s.now()
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		subtree, err := txRepo.SubtreeFolderIDs(ctx, folderID)
		if err != nil {
			return err
		}

		files, err := txRepo.ListActiveFilesInFolders(ctx, subtree)
		if err != nil {
			return err
		}

		for _, file := range files {
			entry := s.newLogEntry(userID, file.ID, file.DataRoomID, ActionDelete, meta, now)
			if err := txRepo.InsertLog(ctx, entry); err != nil {
				return err
			}
		}

		if err := txRepo.DetachAndDeactivateFiles(ctx, subtree, now); err != nil {
			return err
		}
		if err := txRepo.DeleteFolders(ctx, subtree); err != nil {
			return err
		}

		return txRepo.BumpLastModified(ctx, folder.DataRoomID, now)
	})
}

// UploadFile records file metadata. The extension allow-list is checked
// before any permission lookup, so a disallowed type fails with a validation
// error regardless of who asks.
func (s *Service) UploadFile(
	ctx context.Context,
	roomID string,
	req UploadFileRequest,
	meta RequestMeta,
) (*File, error) {
	ext := normalizeExtension(req.FileType, req.Name)
	if !s.extensionAllowed(ext) {
		return nil, fmt.Errorf(
			"file type %q is not allowed: %w",
			ext,
			core.ErrInvalidInput,
		)
	}
	if s.uploads.MaxFileSize > 0 && req.FileSize > s.uploads.MaxFileSize {
		return nil, fmt.Errorf("file too large: %w", core.ErrInvalidInput)
	}

	ok, err := s.repo.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, core.ErrNotFound)
	}

	err = s.requireCapability(ctx, req.UserID, roomID,
		func(c permission.Capabilities) bool { return c.Upload })
	if err != nil {
		return nil, err
	}

	if req.FolderID != nil {
		if err := s.validateParent(ctx, roomID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	file := &File{
		ID:            uuid.New().String(),
		Name:          req.Name,
		OriginalName:  req.Name,
		FileType:      ext,
		FileSize:      req.FileSize,
		MimeType:      req.MimeType,
		DataRoomID:    roomID,
		FolderID:      req.FolderID,
		UploadedBy:    req.UserID,
		VersionNumber: 1,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	file.FilePath = path.Join(
		s.uploads.BasePath,
		roomID,
		fmt.Sprintf("%s_%s", file.ID, req.Name),
	)

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		if err := txRepo.CreateFile(ctx, file); err != nil {
			return err
		}

		entry := s.newLogEntry(req.UserID, file.ID, roomID, ActionUpload, meta, now)
		if err := txRepo.InsertLog(ctx, entry); err != nil {
			return err
		}

		return txRepo.BumpLastModified(ctx, roomID, now)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.FileUploaded(ctx, req.UserID, roomID, file.Name)
	}

	s.log.InfoContext(ctx, "file uploaded",
		slog.String("file_id", file.ID),
		slog.String("room_id", roomID),
		slog.String("user_id", req.UserID),
	)

	return file, nil
}

// RenameFile requires the edit capability. Only the display name changes;
// original name, id, room and creation timestamp stay fixed.
func (s *Service) RenameFile(
	ctx context.Context,
	fileID string,
	req RenameRequest,
) (*File, error) {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	err = s.requireCapability(ctx, req.UserID, file.DataRoomID,
		func(c permission.Capabilities) bool { return c.Edit })
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)
		if err := txRepo.RenameFile(ctx, fileID, req.Name, now); err != nil {
			return err
		}
		return txRepo.BumpLastModified(ctx, file.DataRoomID, now)
	})
	if err != nil {
		return nil, err
	}

	file.Name = req.Name
	file.UpdatedAt = now
	return file, nil
}

// DeleteFile soft-deletes. The delete entry is written before the row flips
// inactive so an attempted delete leaves audit history even when the update
// fails; both run in one transaction so a rollback drops them together.
func (s *Service) DeleteFile(
	ctx context.Context,
	fileID, userID string,
	meta RequestMeta,
) error {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}

	err = s.requireCapability(ctx, userID, file.DataRoomID,
		func(c permission.Capabilities) bool { return c.Delete })
	if err != nil {
		return err
	}

	now := s.now()
	return core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		entry := s.newLogEntry(userID, fileID, file.DataRoomID, ActionDelete, meta, now)
		if err := txRepo.InsertLog(ctx, entry); err != nil {
			return err
		}
		if err := txRepo.SoftDeleteFile(ctx, fileID, now); err != nil {
			return err
		}

		return txRepo.BumpLastModified(ctx, file.DataRoomID, now)
	})
}

// ViewFile requires the view capability and writes a view entry to the
// access log. Content extraction is out of scope; the preview is a stub.
func (s *Service) ViewFile(
	ctx context.Context,
	fileID, userID string,
	meta RequestMeta,
) (*FilePreview, error) {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	err = s.requireCapability(ctx, userID, file.DataRoomID,
		func(c permission.Capabilities) bool { return c.View })
	if err != nil {
		return nil, err
	}

	entry := s.newLogEntry(userID, fileID, file.DataRoomID, ActionView, meta, s.now())
	if err := s.repo.InsertLog(ctx, entry); err != nil {
		return nil, err
	}

	return &FilePreview{
		File:    ToFileResponse(file),
		Preview: fmt.Sprintf("Preview not available for %s files", file.FileType),
	}, nil
}

// DownloadFile requires the download capability, logs the download and
// returns the stored metadata. Byte storage lives outside this service.
func (s *Service) DownloadFile(
	ctx context.Context,
	fileID, userID string,
	meta RequestMeta,
) (*File, error) {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	err = s.requireCapability(ctx, userID, file.DataRoomID,
		func(c permission.Capabilities) bool { return c.Download })
	if err != nil {
		return nil, err
	}

	entry := s.newLogEntry(userID, fileID, file.DataRoomID, ActionDownload, meta, s.now())
	if err := s.repo.InsertLog(ctx, entry); err != nil {
		return nil, err
	}

	return file, nil
}

// FileLogs returns the file's audit trail, newest first. The requester
// needs the view capability in the file's room.
func (s *Service) FileLogs(
	ctx context.Context,
	fileID, userID string,
) ([]AccessLogEntry, error) {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	err = s.requireCapability(ctx, userID, file.DataRoomID,
		func(c permission.Capabilities) bool { return c.View })
	if err != nil {
		return nil, err
	}

	return s.repo.ListLogsByFile(ctx, fileID)
}

func (s *Service) newLogEntry(
	userID, fileID, roomID string,
	action Action,
	meta RequestMeta,
	now int64,
) *AccessLogEntry {
	entry := &AccessLogEntry{
		ID:         uuid.New().String(),
		UserID:     userID,
		FileID:     fileID,
		DataRoomID: roomID,
		Action:     action,
		CreatedAt:  now,
	}
	if meta.IPAddress != "" {
		entry.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}
	return entry
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.uploads.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func normalizeExtension(fileType, name string) string {
	ext := strings.ToLower(strings.TrimPrefix(fileType, "."))
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	}
	return ext
}

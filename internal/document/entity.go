// FrancescoMazzola | 2026
// entity.go

package document

type Folder struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	DataRoomID     string  `db:"data_room_id"`
	ParentFolderID *string `db:"parent_folder_id"`
	CreatedBy      string  `db:"created_by"`
	CreatedAt      int64   `db:"created_at"`
	UpdatedAt      int64   `db:"updated_at"`
}

type File struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	OriginalName  string  `db:"original_name"`
	FileType      string  `db:"file_type"`
	FileSize      int64   `db:"file_size"`
	FilePath      string  `db:"file_path"`
	MimeType      *string `db:"mime_type"`
	DataRoomID    string  `db:"data_room_id"`
	FolderID      *string `db:"folder_id"`
	UploadedBy    string  `db:"uploaded_by"`
	VersionNumber int     `db:"version_number"`
	Checksum      *string `db:"checksum"`
	IsActive      bool    `db:"is_active"`
	CreatedAt     int64   `db:"created_at"`
	UpdatedAt     int64   `db:"updated_at"`
}

// Action is the audited operation kind on a file.
type Action string

const (
	ActionView     Action = "view"
	ActionDownload Action = "download"
	ActionUpload   Action = "upload"
	ActionDelete   Action = "delete"
)

// AccessLogEntry is append-only. Rows are never updated or removed, and
// file_id carries no foreign key so history survives file removal.
type AccessLogEntry struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`
	FileID     string  `db:"file_id"`
	DataRoomID string  `db:"data_room_id"`
	Action     Action  `db:"action"`
	IPAddress  *string `db:"ip_address"`
	UserAgent  *string `db:"user_agent"`
	CreatedAt  int64   `db:"created_at"`
}

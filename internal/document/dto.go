// FrancescoMazzola | 2026
// dto.go

package document

type CreateFolderRequest struct {
	Name           string  `json:"name"           validate:"required,min=1,max=200"`
	ParentFolderID *string `json:"parentFolderId" validate:"omitempty,uuid"`
	UserID         string  `json:"userId"         validate:"required,uuid"`
}

type RenameRequest struct {
	Name   string `json:"name"   validate:"required,min=1,max=200"`
	UserID string `json:"userId" validate:"required,uuid"`
}

type UploadFileRequest struct {
	Name     string  `json:"name"     validate:"required,min=1,max=255"`
	FileType string  `json:"fileType" validate:"required,min=1,max=10"`
	FileSize int64   `json:"fileSize" validate:"gte=0"`
	MimeType *string `json:"mimeType" validate:"omitempty,max=255"`
	FolderID *string `json:"folderId" validate:"omitempty,uuid"`
	UserID   string  `json:"userId"   validate:"required,uuid"`
}

type FolderResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	DataRoomID     string  `json:"dataRoomId"`
	ParentFolderID *string `json:"parentFolderId,omitempty"`
	CreatedBy      string  `json:"createdBy"`
	CreatedAt      int64   `json:"createdAt"`
	UpdatedAt      int64   `json:"updatedAt"`
}

type FileResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	OriginalName  string  `json:"originalName"`
	FileType      string  `json:"fileType"`
	FileSize      int64   `json:"fileSize"`
	FilePath      string  `json:"filePath"`
	MimeType      *string `json:"mimeType,omitempty"`
	DataRoomID    string  `json:"dataRoomId"`
	FolderID      *string `json:"folderId,omitempty"`
	UploadedBy    string  `json:"uploadedBy"`
	VersionNumber int     `json:"versionNumber"`
	IsActive      bool    `json:"isActive"`
	CreatedAt     int64   `json:"createdAt"`
	UpdatedAt     int64   `json:"updatedAt"`
}

// FilePreview is the payload for a logged view. Content extraction is out of
// scope, so Preview carries a short placeholder.
type FilePreview struct {
	File    FileResponse `json:"file"`
	Preview string       `json:"preview"`
}

type AccessLogResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	FileID     string  `json:"fileId"`
	DataRoomID string  `json:"dataRoomId"`
	Action     Action  `json:"action"`
	IPAddress  *string `json:"ipAddress,omitempty"`
	UserAgent  *string `json:"userAgent,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
}

func ToFolderResponse(f *Folder) FolderResponse {
	return FolderResponse{
		ID:             f.ID,
		Name:           f.Name,
		DataRoomID:     f.DataRoomID,
		ParentFolderID: f.ParentFolderID,
		CreatedBy:      f.CreatedBy,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func ToFolderResponseList(folders []Folder) []FolderResponse {
	out := make([]FolderResponse, len(folders))
	for i := range folders {
		out[i] = ToFolderResponse(&folders[i])
	}
	return out
}

func ToFileResponse(f *File) FileResponse {
	return FileResponse{
		ID:            f.ID,
		Name:          f.Name,
		OriginalName:  f.OriginalName,
		FileType:      f.FileType,
		FileSize:      f.FileSize,
		FilePath:      f.FilePath,
		MimeType:      f.MimeType,
		DataRoomID:    f.DataRoomID,
		FolderID:      f.FolderID,
		UploadedBy:    f.UploadedBy,
		VersionNumber: f.VersionNumber,
		IsActive:      f.IsActive,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func ToFileResponseList(files []File) []FileResponse {
	out := make([]FileResponse, len(files))
	for i := range files {
		out[i] = ToFileResponse(&files[i])
	}
	return out
}

func ToAccessLogResponseList(entries []AccessLogEntry) []AccessLogResponse {
	out := make([]AccessLogResponse, len(entries))
	for i, e := range entries {
		out[i] = AccessLogResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			FileID:     e.FileID,
			DataRoomID: e.DataRoomID,
			Action:     e.Action,
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			CreatedAt:  e.CreatedAt,
		}
	}
	return out
}

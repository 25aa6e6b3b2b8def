// FrancescoMazzola | 2026
// dto.go

package permission

// GrantRequest creates or replaces the permission row for a (user, room)
// pair. Flag pointers left nil fall back to the role's defaults.
type GrantRequest struct {
	UserID            string `json:"userId"    validate:"required,uuid"`
	GrantedBy         string `json:"grantedBy" validate:"required,uuid"`
	Role              string `json:"role"      validate:"required,oneof=Creator Editor Contributor Viewer"`
	CanView           *bool  `json:"canView,omitempty"`
	CanUpload         *bool  `json:"canUpload,omitempty"`
	CanDownload       *bool  `json:"canDownload,omitempty"`
	CanEdit           *bool  `json:"canEdit,omitempty"`
	CanDelete         *bool  `json:"canDelete,omitempty"`
	AIAccess          *bool  `json:"aiAccess,omitempty"`
	WatermarkRequired *bool  `json:"watermarkRequired,omitempty"`
	ExpiresAt         *int64 `json:"expiresAt,omitempty"`
}

type PermissionResponse struct {
	UserID            string `json:"userId"`
	DataRoomID        string `json:"dataRoomId"`
	Role              string `json:"role"`
	CanView           bool   `json:"canView"`
	CanUpload         bool   `json:"canUpload"`
	CanDownload       bool   `json:"canDownload"`
	CanEdit           bool   `json:"canEdit"`
	CanDelete         bool   `json:"canDelete"`
	AIAccess          bool   `json:"aiAccess"`
	WatermarkRequired bool   `json:"watermarkRequired"`
	ExpiresAt         *int64 `json:"expiresAt,omitempty"`
	CreatedBy         string `json:"createdBy"`
	CreatedAt         int64  `json:"createdAt"`
	UpdatedAt         int64  `json:"updatedAt"`
}

func ToPermissionResponse(p *Permission) PermissionResponse {
	return PermissionResponse{
		UserID:            p.UserID,
		DataRoomID:        p.DataRoomID,
		Role:              string(p.Role),
		CanView:           p.View,
		CanUpload:         p.Upload,
		CanDownload:       p.Download,
		CanEdit:           p.Edit,
		CanDelete:         p.Delete,
		AIAccess:          p.AIAccess,
		WatermarkRequired: p.WatermarkRequired,
		ExpiresAt:         p.ExpiresAt,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func ToPermissionResponseList(perms []Permission) []PermissionResponse {
	responses := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		responses = append(responses, ToPermissionResponse(&p))
	}
	return responses
}

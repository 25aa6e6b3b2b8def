// FrancescoMazzola | 2026
// entity.go

package permission

// Role is a display label. It seeds default capability flags at grant time
// and is never consulted during authorization; the flags are the source of
// truth.
type Role string

const (
	RoleCreator     Role = "Creator"
	RoleEditor      Role = "Editor"
	RoleContributor Role = "Contributor"
	RoleViewer      Role = "Viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCreator, RoleEditor, RoleContributor, RoleViewer:
		return true
	}
	return false
}

// Capabilities is the authoritative per-(user, room) permission set.
type Capabilities struct {
	View     bool `db:"can_view"     json:"canView"`
	Upload   bool `db:"can_upload"   json:"canUpload"`
	Download bool `db:"can_download" json:"canDownload"`
	Edit     bool `db:"can_edit"     json:"canEdit"`
	Delete   bool `db:"can_delete"   json:"canDelete"`
	AIAccess bool `db:"ai_access"    json:"aiAccess"`
}

// DefaultCapabilities returns the flag set a role implies when a grant does
// not override individual flags.
func DefaultCapabilities(role Role) Capabilities {
	switch role {
	case RoleCreator:
		return Capabilities{
			View: true, Upload: true, Download: true,
			Edit: true, Delete: true, AIAccess: true,
		}
	case RoleEditor:
		return Capabilities{
			View: true, Upload: true, Download: true,
			Edit: true, Delete: true,
		}
	case RoleContributor:
		return Capabilities{View: true, Upload: true, Download: true}
	default:
		return Capabilities{View: true}
	}
}

// Permission is the unique row for a (user, data room) pair.
type Permission struct {
	UserID     string `db:"user_id"`
	DataRoomID string `db:"data_room_id"`
	Role       Role   `db:"role"`
	Capabilities
	WatermarkRequired bool   `db:"watermark_required"`
	ExpiresAt         *int64 `db:"expires_at"`
	CreatedBy         string `db:"created_by"`
	CreatedAt         int64  `db:"created_at"`
	UpdatedAt         int64  `db:"updated_at"`
}

// Expired reports whether the grant has lapsed as of the given unix time.
// An absent expiry never lapses.
func (p *Permission) Expired(now int64) bool {
	return p.ExpiresAt != nil && *p.ExpiresAt <= now
}

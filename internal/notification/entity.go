// FrancescoMazzola | 2026
// entity.go

package notification

type Type string

const (
	TypeAccessGranted Type = "access_granted"
	TypeFileUploaded  Type = "file_uploaded"
)

type Notification struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`
	DataRoomID *string `db:"data_room_id"`
	Type       Type    `db:"type"`
	Title      string  `db:"title"`
	Message    *string `db:"message"`
	IsRead     bool    `db:"is_read"`
	CreatedAt  int64   `db:"created_at"`
}

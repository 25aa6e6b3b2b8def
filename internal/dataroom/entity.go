// FrancescoMazzola | 2026
// entity.go

package dataroom

type DataRoom struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Description  *string `db:"description"`
	CreatedBy    string  `db:"created_by"`
	IsActive     bool    `db:"is_active"`
	CreatedAt    int64   `db:"created_at"`
	UpdatedAt    int64   `db:"updated_at"`
	LastModified int64   `db:"last_modified"`
}

type Tag struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Color     *string `db:"color"`
	CreatedAt int64   `db:"created_at"`
}

// Watermark is the per-room overlay template applied to previews for grants
// with watermark_required set.
type Watermark struct {
	ID         string  `db:"id"`
	DataRoomID string  `db:"data_room_id"`
	Template   string  `db:"template"`
	Position   string  `db:"position"`
	Opacity    float64 `db:"opacity"`
	IsActive   bool    `db:"is_active"`
	CreatedAt  int64   `db:"created_at"`
}

// FrancescoMazzola | 2026
// entity.go

package ai

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Query struct {
	ID               string  `db:"id"`
	UserID           string  `db:"user_id"`
	DataRoomID       string  `db:"data_room_id"`
	QueryText        string  `db:"query_text"`
	ResponseText     *string `db:"response_text"`
	FilesReferenced  *string `db:"files_referenced"`
	ProcessingStatus Status  `db:"processing_status"`
	ProcessingTimeMs *int64  `db:"processing_time_ms"`
	CreatedAt        int64   `db:"created_at"`
}

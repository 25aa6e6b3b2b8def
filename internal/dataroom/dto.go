// FrancescoMazzola | 2026
// dto.go

package dataroom

type CreateRoomRequest struct {
	Name        string   `json:"name"      validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	CreatorID   string   `json:"creatorId" validate:"required,uuid"`
	Tags        []string `json:"tags"      validate:"omitempty,dive,min=1,max=50"`
}

// RoomSummary is one row of a room listing: the room plus the caller's role
// and aggregate counts.
type RoomSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	CreatorID    string   `json:"creatorId"`
	Role         string   `json:"role,omitempty"`
	FileCount    int      `json:"fileCount"`
	FolderCount  int      `json:"folderCount"`
	Tags         []string `json:"tags"`
	CreatedAt    int64    `json:"createdAt"`
	LastModified int64    `json:"lastModified"`
}

type StatsResponse struct {
	TotalRooms     int `json:"totalRooms"`
	TotalFiles     int `json:"totalFiles"`
	TotalUsers     int `json:"totalUsers"`
	RecentActivity int `json:"recentActivity"`
}

type WatermarkRequest struct {
	Template string  `json:"template" validate:"required,min=1,max=500"`
	Position string  `json:"position" validate:"omitempty,oneof=center top-left top-right bottom-left bottom-right"`
	Opacity  float64 `json:"opacity"  validate:"omitempty,gt=0,lte=1"`
}

type WatermarkResponse struct {
	ID         string  `json:"id"`
	DataRoomID string  `json:"dataRoomId"`
	Template   string  `json:"template"`
	Position   string  `json:"position"`
	Opacity    float64 `json:"opacity"`
	IsActive   bool    `json:"isActive"`
	CreatedAt  int64   `json:"createdAt"`
}

func ToWatermarkResponse(wm *Watermark) WatermarkResponse {
	return WatermarkResponse{
		ID:         wm.ID,
		DataRoomID: wm.DataRoomID,
		Template:   wm.Template,
		Position:   wm.Position,
		Opacity:    wm.Opacity,
		IsActive:   wm.IsActive,
		CreatedAt:  wm.CreatedAt,
	}
}

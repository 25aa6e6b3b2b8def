// FrancescoMazzola | 2026
// dto.go

package sharing

type CreateLinkRequest struct {
	UserID    string  `json:"userId"    validate:"required,uuid"`
	Password  *string `json:"password"  validate:"omitempty,min=4,max=128"`
	MaxUses   *int    `json:"maxUses"   validate:"omitempty,gt=0"`
	ExpiresAt *int64  `json:"expiresAt" validate:"omitempty,gt=0"`
	Rights    *string `json:"rights"    validate:"omitempty,oneof=view download"`
}

type RedeemLinkRequest struct {
	Token    string  `json:"token"    validate:"required"`
	Password *string `json:"password"`
}

// CreateLinkResponse carries the cleartext token. It is never retrievable
// again.
type CreateLinkResponse struct {
	ID    string       `json:"id"`
	Token string       `json:"token"`
	Link  LinkResponse `json:"link"`
}

type LinkResponse struct {
	ID          string  `json:"id"`
	DataRoomID  string  `json:"dataRoomId"`
	HasPassword bool    `json:"hasPassword"`
	MaxUses     *int    `json:"maxUses,omitempty"`
	CurrentUses int     `json:"currentUses"`
	ExpiresAt   *int64  `json:"expiresAt,omitempty"`
	Rights      *string `json:"rights,omitempty"`
	CreatedBy   string  `json:"createdBy"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   int64   `json:"createdAt"`
	LastUsedAt  *int64  `json:"lastUsedAt,omitempty"`
}

type RedeemLinkResponse struct {
	DataRoomID string  `json:"dataRoomId"`
	Rights     *string `json:"rights,omitempty"`
}

func ToLinkResponse(l *SharedLink) LinkResponse {
	return LinkResponse{
		ID:          l.ID,
		DataRoomID:  l.DataRoomID,
		HasPassword: l.PasswordHash != nil,
		MaxUses:     l.MaxUses,
		CurrentUses: l.CurrentUses,
		ExpiresAt:   l.ExpiresAt,
		Rights:      l.Rights,
		CreatedBy:   l.CreatedBy,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		LastUsedAt:  l.LastUsedAt,
	}
}

func ToLinkResponseList(links []SharedLink) []LinkResponse {
	out := make([]LinkResponse, len(links))
	for i := range links {
		out[i] = ToLinkResponse(&links[i])
	}
	return out
}

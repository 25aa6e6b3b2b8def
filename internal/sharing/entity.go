// FrancescoMazzola | 2026
// entity.go

package sharing

// SharedLink grants room access to a bearer of the token. Only a SHA-256
// hash of the token is stored; the cleartext is returned once at creation.
type SharedLink struct {
	ID           string  `db:"id"`
	DataRoomID   string  `db:"data_room_id"`
	TokenHash    string  `db:"token_hash"`
	PasswordHash *string `db:"password_hash"`
	MaxUses      *int    `db:"max_uses"`
	CurrentUses  int     `db:"current_uses"`
	ExpiresAt    *int64  `db:"expires_at"`
	Rights       *string `db:"rights"`
	CreatedBy    string  `db:"created_by"`
	IsActive     bool    `db:"is_active"`
	CreatedAt    int64   `db:"created_at"`
	LastUsedAt   *int64  `db:"last_used_at"`
}

// Usable reports whether the link can still be redeemed at the given time.
func (l *SharedLink) Usable(now int64) bool {
	if !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && *l.ExpiresAt < now {
		return false
	}
	if l.MaxUses != nil && l.CurrentUses >= *l.MaxUses {
		return false
	}
	return true
}

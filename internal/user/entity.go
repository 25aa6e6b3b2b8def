// FrancescoMazzola | 2026
// entity.go

package user

type User struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	Name         string  `db:"name"`
	PasswordHash string  `db:"password_hash"`
	IsActive     bool    `db:"is_active"`
	AvatarURL    *string `db:"avatar_url"`
	CreatedAt    int64   `db:"created_at"`
	UpdatedAt    int64   `db:"updated_at"`
	LastLogin    *int64  `db:"last_login"`
}

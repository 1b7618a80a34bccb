package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

const userColumns = `id, email, password_hash, email_verified, avatar_url, created_at`

type userRow struct {
	ID            int64
	Email         string
	PasswordHash  string
	EmailVerified bool
	AvatarURL     sql.NullString
	CreatedAt     time.Time
}

func (ur *userRow) dest() []any {
	return []any{&ur.ID, &ur.Email, &ur.PasswordHash, &ur.EmailVerified, &ur.AvatarURL, &ur.CreatedAt}
}

func (ur userRow) toDomain() domain.User {
	return domain.User{
		ID:            ur.ID,
		Email:         ur.Email,
		PasswordHash:  ur.PasswordHash,
		EmailVerified: ur.EmailVerified,
		AvatarURL:     ur.AvatarURL.String,
		CreatedAt:     ur.CreatedAt,
	}
}

package domain

import (
	"strings"
	"time"
)

type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	EmailVerified bool
	AvatarURL     string
	CreatedAt     time.Time
}

// NormalizeEmail lower-cases and trims an address so lookups and the unique
// index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

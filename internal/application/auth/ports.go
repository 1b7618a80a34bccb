package auth

import (
	"context"
	"io"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

/*
UserRepo
--------
Persistence of user accounts. Email lookups are case-insensitive.
Create returns domain.ErrEmailAlreadyExists on a duplicate address.
*/
type UserRepo interface {
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// SetEmailVerified is idempotent; a missing user is domain.ErrUserNotFound.
	SetEmailVerified(ctx context.Context, id int64) error
	SetAvatarURL(ctx context.Context, id int64, url string) (domain.User, error)
}

/*
PasswordHasher
--------------
Verify returns false for a mismatch and for a malformed digest.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenPurpose separates access, refresh and verification tokens signed with
// the same secret.
type TokenPurpose string

const (
	PurposeAccess      TokenPurpose = "access"
	PurposeRefresh     TokenPurpose = "refresh"
	PurposeVerifyEmail TokenPurpose = "verify_email"
)

type TokenStatus int

const (
	TokenInvalid TokenStatus = iota
	TokenValid
	TokenExpired
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// TokenResult is the outcome of validating a token. Subject and Purpose are
// only meaningful when Status is TokenValid.
type TokenResult struct {
	Status  TokenStatus
	Subject string
	Purpose TokenPurpose
}

/*
TokenService
------------
Issue signs {subject, purpose, exp = now+ttl}.
Validate never panics and never returns an error: the outcome is a TokenResult.
*/
type TokenService interface {
	Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error)
	Validate(token string) TokenResult
}

type VerifyEmailEvent struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}

/*
EventPublisher
--------------
Hands a verification email to the outbound mail path. Implementations must
not block on delivery.
*/
type EventPublisher interface {
	PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error
}

// AvatarUpload is an image received from a client.
type AvatarUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Filename    string
}

/*
AvatarStore
-----------
Stores an avatar image and returns its public URL.
*/
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID int64, upload AvatarUpload) (string, error)
}

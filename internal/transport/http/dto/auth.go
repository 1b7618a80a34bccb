package dto

import (
	"time"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
)

// -------- Requests --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = domain.NormalizeEmail(r.Email)
	return Struct(r)
}

// TokenForm is the form-encoded login body. The address may arrive as
// either "username" or "email".
type TokenForm struct {
	Username string `form:"username"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f *TokenForm) Validate() error {
	if f.Email == "" {
		f.Email = f.Username
	}
	return Struct(f)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *RefreshRequest) Validate() error { return Struct(r) }

// -------- Responses --------

type UserView struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	AvatarURL     *string   `json:"avatar_url"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewUserView(u domain.User) UserView {
	v := UserView{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
	if u.AvatarURL != "" {
		url := u.AvatarURL
		v.AvatarURL = &url
	}
	return v
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func NewTokenResponse(t auth.AuthTokens) TokenResponse {
	return TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

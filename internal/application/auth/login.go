package auth

import (
	"context"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Login authenticates a user and issues tokens.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (AuthTokens, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return AuthTokens{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			s.audit("login_failed", map[string]string{"reason": "unknown_email"})
			return AuthTokens{}, domain.ErrInvalidCredentials()
		}
		return AuthTokens{}, err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.audit("login_failed", map[string]string{"user_id": subjectOf(u.ID), "reason": "bad_password"})
		return AuthTokens{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueTokens(u.ID)
	if err != nil {
		return AuthTokens{}, err
	}

	s.audit("login_success", map[string]string{"user_id": subjectOf(u.ID)})
	return toks, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	userID, err := s.subjectFor(refreshToken, PurposeRefresh)
	if err != nil {
		return AuthTokens{}, err
	}

	// the account must still exist
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return AuthTokens{}, domain.ErrInvalidOrExpiredToken()
		}
		return AuthTokens{}, err
	}

	return s.issueTokens(userID)
}

// Authenticate resolves a bearer access token to a user id.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	return s.subjectFor(accessToken, PurposeAccess)
}

// Me returns the user behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

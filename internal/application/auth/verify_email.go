package auth

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// VerifyEmail redeems a verification token and marks its user verified.
// Redeeming again for an already verified user succeeds. Invalid, expired
// or orphaned tokens leave every user untouched.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.subjectFor(token, PurposeVerifyEmail)
	if err != nil {
		return err
	}

	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.ErrInvalidOrExpiredToken()
		}
		return err
	}

	s.audit("email_verified", map[string]string{"user_id": subjectOf(userID)})
	return nil
}

package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Register creates an unverified user and queues the verification email.
// Mail problems are reported to the audit hook and never fail the call.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidField("email", "invalid format")
	}

	// the only place a password is hashed; the store persists the digest as is
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, email, hash)
	if err != nil {
		return domain.User{}, err
	}

	s.sendVerification(ctx, created)

	return created, nil
}

func (s *Service) sendVerification(ctx context.Context, u domain.User) {
	token, err := s.tokens.Issue(subjectOf(u.ID), PurposeVerifyEmail, VerifyEmailTTL)
	if err != nil {
		s.audit("verify_email_dispatch_failed", map[string]string{
			"user_id": subjectOf(u.ID),
			"reason":  "token_sign_failed",
			"error":   err.Error(),
		})
		return
	}

	evt := VerifyEmailEvent{
		UserID: u.ID,
		Email:  u.Email,
		URL:    s.verifyLink(token),
	}
	if err := s.pub.PublishVerifyEmail(ctx, evt); err != nil {
		s.audit("verify_email_dispatch_failed", map[string]string{
			"user_id": subjectOf(u.ID),
			"reason":  "enqueue_failed",
			"error":   err.Error(),
		})
		return
	}

	s.audit("verify_email_queued", map[string]string{"user_id": subjectOf(u.ID)})
}

func (s *Service) verifyLink(token string) string {
	return s.publicBaseURL + "/verify/?token=" + url.QueryEscape(token)
}

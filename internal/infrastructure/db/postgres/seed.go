package postgres

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/contacts-service/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederUsers interface {
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)
	SetEmailVerified(ctx context.Context, id int64) error
}

type SeederContacts interface {
	Create(ctx context.Context, in domain.ContactFields) (domain.Contact, error)
	List(ctx context.Context, page domain.Page) ([]domain.Contact, error)
}

// SeedDemo creates a verified demo account and, when the contact table is
// empty, a few sample contacts. It is safe to run on every start.
func SeedDemo(ctx context.Context, users SeederUsers, contacts SeederContacts, hasher SeederHasher, lg zerolog.Logger) {
	hash, err := hasher.Hash("DemoPassword123!")
	if err != nil {
		lg.Warn().Err(err).Msg("seed: hash failed")
		return
	}

	u, err := users.Create(ctx, "demo@example.com", hash)
	switch {
	case err == nil:
		if err := users.SetEmailVerified(ctx, u.ID); err != nil {
			lg.Warn().Err(err).Msg("seed: verify demo user failed")
		}
	case domain.Is(err, "email_already_exists"):
		// restart
	default:
		lg.Warn().Err(err).Msg("seed: create demo user failed")
	}

	existing, err := contacts.List(ctx, domain.Page{Limit: 1})
	if err != nil {
		lg.Warn().Err(err).Msg("seed: list contacts failed")
		return
	}
	if len(existing) > 0 {
		return
	}

	seeds := []domain.ContactFields{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PhoneNumber: "+44 20 0000 0001",
			Birthday: time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", PhoneNumber: "+44 20 0000 0002",
			Birthday: time.Date(1912, 6, 23, 0, 0, 0, 0, time.UTC)},
	}
	n := 0
	for _, s := range seeds {
		if _, err := contacts.Create(ctx, s); err != nil {
			lg.Warn().Err(err).Str("email", s.Email).Msg("seed: create contact failed")
			continue
		}
		n++
	}

	lg.Info().Int("contacts", n).Msg("seed: demo data seeded")
}

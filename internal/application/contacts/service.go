package contacts

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Service implements contact CRUD over a single global collection.
// actorID is the authenticated caller; it is recorded in the audit trail
// but does not scope the data.
type Service struct {
	repo  Repo
	audit func(action string, fields map[string]string)
}

func NewService(repo Repo) *Service {
	return &Service{
		repo:  repo,
		audit: func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) Create(ctx context.Context, actorID int64, in domain.ContactFields) (domain.Contact, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	switch {
	case in.FirstName == "":
		return domain.Contact{}, domain.ErrMissingField("first_name")
	case in.LastName == "":
		return domain.Contact{}, domain.ErrMissingField("last_name")
	case in.Email == "":
		return domain.Contact{}, domain.ErrMissingField("email")
	case in.PhoneNumber == "":
		return domain.Contact{}, domain.ErrMissingField("phone_number")
	case in.Birthday.IsZero():
		return domain.Contact{}, domain.ErrMissingField("birthday")
	}
	if !strings.Contains(in.Email, "@") {
		return domain.Contact{}, domain.ErrInvalidField("email", "invalid format")
	}

	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Contact{}, err
	}

	s.audit("contact_created", fields(actorID, c.ID))
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Contact, error) {
	if id <= 0 {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return s.repo.Get(ctx, id)
}

// List pages through contacts by id. A zero limit means DefaultLimit.
func (s *Service) List(ctx context.Context, skip, limit int) ([]domain.Contact, error) {
	page, err := NormalizePage(skip, limit, DefaultLimit)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, page)
}

// Update changes only the supplied fields. An empty patch returns the
// current record.
func (s *Service) Update(ctx context.Context, actorID, id int64, patch domain.ContactPatch) (domain.Contact, error) {
	if id <= 0 {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	if err := validatePatch(&patch); err != nil {
		return domain.Contact{}, err
	}
	if patch.Empty() {
		return s.repo.Get(ctx, id)
	}

	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Contact{}, err
	}

	s.audit("contact_updated", fields(actorID, id))
	return c, nil
}

// Delete removes a contact. A missing id is domain.ErrContactNotFound, also on
// a repeated delete.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return domain.ErrContactNotFound()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit("contact_deleted", fields(actorID, id))
	return nil
}

func validatePatch(p *domain.ContactPatch) error {
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"email", p.Email},
		{"phone_number", p.PhoneNumber},
	} {
		if f.v == nil {
			continue
		}
		*f.v = strings.TrimSpace(*f.v)
		if *f.v == "" {
			return domain.ErrInvalidField(f.name, "must not be empty")
		}
	}
	if p.Email != nil && !strings.Contains(*p.Email, "@") {
		return domain.ErrInvalidField("email", "invalid format")
	}
	if p.Birthday != nil && p.Birthday.IsZero() {
		return domain.ErrInvalidField("birthday", "must not be empty")
	}
	return nil
}

// NormalizePage applies defaults and bounds to skip/limit query values.
func NormalizePage(skip, limit, def int) (domain.Page, error) {
	if skip < 0 {
		return domain.Page{}, domain.ErrInvalidField("skip", "must be >= 0")
	}
	if limit < 0 {
		return domain.Page{}, domain.ErrInvalidField("limit", "must be >= 0")
	}
	if limit == 0 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return domain.Page{Skip: skip, Limit: limit}, nil
}

func fields(actorID, contactID int64) map[string]string {
	return map[string]string{
		"actor_id":   strconv.FormatInt(actorID, 10),
		"contact_id": strconv.FormatInt(contactID, 10),
	}
}

package notes

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/domain"
)

const DefaultLimit = 10

/*
Repo
----
Note persistence. List is ordered by id ascending.
*/
type Repo interface {
	Create(ctx context.Context, title, content string) (domain.Note, error)
	List(ctx context.Context, page domain.Page) ([]domain.Note, error)
	Update(ctx context.Context, id int64, patch domain.NotePatch) (domain.Note, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo  Repo
	audit func(action string, fields map[string]string)
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, audit: func(string, map[string]string) {}}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]domain.Note, error) {
	page, err := contacts.NormalizePage(skip, limit, DefaultLimit)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, page)
}

func (s *Service) Create(ctx context.Context, actorID int64, title, content string) (domain.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Note{}, domain.ErrMissingField("title")
	}

	n, err := s.repo.Create(ctx, title, content)
	if err != nil {
		return domain.Note{}, err
	}
	s.audit("note_created", fields(actorID, n.ID))
	return n, nil
}

// Update changes the supplied fields; a blank title is rejected.
func (s *Service) Update(ctx context.Context, actorID, id int64, patch domain.NotePatch) (domain.Note, error) {
	if id <= 0 {
		return domain.Note{}, domain.ErrNoteNotFound()
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return domain.Note{}, domain.ErrInvalidField("title", "must not be empty")
		}
		patch.Title = &t
	}

	n, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Note{}, err
	}
	if !patch.Empty() {
		s.audit("note_updated", fields(actorID, id))
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return domain.ErrNoteNotFound()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit("note_deleted", fields(actorID, id))
	return nil
}

func fields(actorID, noteID int64) map[string]string {
	return map[string]string{
		"actor_id": strconv.FormatInt(actorID, 10),
		"note_id":  strconv.FormatInt(noteID, 10),
	}
}

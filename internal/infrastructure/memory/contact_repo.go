package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

type ContactRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Contact
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{byID: make(map[int64]domain.Contact)}
}

func (r *ContactRepo) Create(ctx context.Context, in domain.ContactFields) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.nextID++
	c := domain.Contact{
		ID:          r.nextID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Birthday:    in.Birthday,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.AdditionalInfo != nil {
		v := *in.AdditionalInfo
		c.AdditionalInfo = &v
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *ContactRepo) Get(ctx context.Context, id int64) (domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return c, nil
}

func (r *ContactRepo) List(ctx context.Context, page domain.Page) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []domain.Contact{}
	for i := page.Skip; i < len(ids) && len(out) < page.Limit; i++ {
		out = append(out, r.byID[ids[i]])
	}
	return out, nil
}

func (r *ContactRepo) Update(ctx context.Context, id int64, patch domain.ContactPatch) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	c = patch.Apply(c)
	c.UpdatedAt = time.Now().UTC()
	r.byID[id] = c
	return c, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrContactNotFound()
	}
	delete(r.byID, id)
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

type NoteRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Note
}

func NewNoteRepo() *NoteRepo {
	return &NoteRepo{byID: make(map[int64]domain.Note)}
}

func (r *NoteRepo) Create(ctx context.Context, title, content string) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n := domain.Note{ID: r.nextID, Title: title, Content: content, CreatedAt: time.Now().UTC()}
	r.byID[n.ID] = n
	return n, nil
}

func (r *NoteRepo) List(ctx context.Context, page domain.Page) ([]domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []domain.Note{}
	for i := page.Skip; i < len(ids) && len(out) < page.Limit; i++ {
		out = append(out, r.byID[ids[i]])
	}
	return out, nil
}

func (r *NoteRepo) Update(ctx context.Context, id int64, patch domain.NotePatch) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return domain.Note{}, domain.ErrNoteNotFound()
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	r.byID[id] = n
	return n, nil
}

func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNoteNotFound()
	}
	delete(r.byID, id)
	return nil
}

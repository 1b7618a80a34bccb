package dto

import (
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

type NoteCreateRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content"`
}

func (r *NoteCreateRequest) Validate() error { return Struct(r) }

type NotePatchRequest struct {
	Title   *string `json:"title" validate:"omitnil,notblank,max=200"`
	Content *string `json:"content"`
}

func (r *NotePatchRequest) Validate() error { return Struct(r) }

func (r *NotePatchRequest) Patch() domain.NotePatch {
	return domain.NotePatch{Title: r.Title, Content: r.Content}
}

type NoteView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNoteViews(ns []domain.Note) []NoteView {
	out := make([]NoteView, 0, len(ns))
	for _, n := range ns {
		out = append(out, NewNoteView(n))
	}
	return out
}

func NewNoteView(n domain.Note) NoteView {
	return NoteView{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt}
}

package http_handlers

import (
	"net/http"

	"github.com/baechuer/contacts-service/internal/application/notes"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
)

type NotesHandler struct {
	svc *notes.Service
}

func NewNotesHandler(svc *notes.Service) *NotesHandler {
	return &NotesHandler{svc: svc}
}

// List is public.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	ns, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewNoteViews(ns))
}

func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.NoteCreateRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	n, err := h.svc.Create(r.Context(), actorID, req.Title, req.Content)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewNoteView(n))
}

func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	id, err := pathID(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.NotePatchRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	n, err := h.svc.Update(r.Context(), actorID, id, req.Patch())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewNoteView(n))
}

func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	id, err := pathID(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), actorID, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

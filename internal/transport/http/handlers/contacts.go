package http_handlers

import (
	"net/http"

	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/logger"
	"github.com/baechuer/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
)

type ContactsHandler struct {
	svc *contacts.Service
}

func NewContactsHandler(svc *contacts.Service) *ContactsHandler {
	return &ContactsHandler{svc: svc}
}

func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.ContactCreateRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), actorID, req.Fields())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("actor_id", actorID).
		Int64("contact_id", c.ID).
		Msg("contact_created")

	response.Created(w, dto.NewContactView(c))
}

func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	cs, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewContactViews(cs))
}

func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewContactView(c))
}

// Update serves both PUT and PATCH; only supplied fields change.
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req dto.ContactPatchRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), actorID, id, req.Patch())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewContactView(c))
}

func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	logger.WithCtx(r.Context()).Info().
		Int64("actor_id", actorID).
		Int64("contact_id", id).
		Msg("contact_deleted")

	response.NoContent(w)
}

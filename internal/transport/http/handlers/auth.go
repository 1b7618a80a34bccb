package http_handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/logger"
	"github.com/baechuer/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
)

const (
	// DefaultAvatarMaxBytes applies when AuthHandler is built with a
	// non-positive limit.
	DefaultAvatarMaxBytes = 5 << 20

	// room for multipart boundaries and part headers around the file
	multipartOverhead = 64 << 10
	maxFormBody       = 64 << 10

	verifiedMessage = "email successfully verified"
)

type AuthHandler struct {
	svc            *auth.Service
	avatarMaxBytes int64
}

func NewAuthHandler(svc *auth.Service, avatarMaxBytes int64) *AuthHandler {
	if avatarMaxBytes <= 0 {
		avatarMaxBytes = DefaultAvatarMaxBytes
	}
	return &AuthHandler{svc: svc, avatarMaxBytes: avatarMaxBytes}
}

// Register handles POST /register/.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Msg("user_registered")

	response.Created(w, dto.NewUserView(u))
}

// VerifyEmail handles GET /verify/?token=...
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		response.WriteError(w, r, domain.ErrInvalidOrExpiredToken())
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MessageResponse{Message: verifiedMessage})
}

// Token handles POST /token/ with a form-encoded body.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		response.WriteError(w, r, domain.ErrInvalidForm(err))
		return
	}

	form := dto.TokenForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	if err := form.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	toks, err := h.svc.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewTokenResponse(toks))
}

// Refresh handles POST /token/refresh/.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	toks, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewTokenResponse(toks))
}

// Me handles GET /users/me/.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(u))
}

// UpdateAvatar handles PUT /users/avatar/ with a multipart "file" part.
func (h *AuthHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.avatarMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.avatarMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, r, domain.ErrFileTooLarge(h.avatarMaxBytes))
			return
		}
		response.WriteError(w, r, domain.ErrInvalidForm(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.WriteError(w, r, domain.ErrMissingField("file"))
		return
	}
	defer file.Close()

	if header.Size > h.avatarMaxBytes {
		response.WriteError(w, r, domain.ErrFileTooLarge(h.avatarMaxBytes))
		return
	}

	body, contentType, err := sniff(file, header)
	if err != nil {
		response.WriteError(w, r, domain.ErrInvalidForm(err))
		return
	}

	u, err := h.svc.UpdateAvatar(r.Context(), userID, auth.AvatarUpload{
		Body:        body,
		Size:        header.Size,
		ContentType: contentType,
		Filename:    header.Filename,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Int64("size", header.Size).
		Msg("avatar_updated")

	response.OK(w, dto.NewUserView(u))
}

// sniff trusts the declared part content type unless it is missing or
// generic, in which case the first bytes decide.
func sniff(f multipart.File, header *multipart.FileHeader) (io.Reader, string, error) {
	ct := header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return f, ct, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), f), http.DetectContentType(head), nil
}

package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/application/notes"
	"github.com/baechuer/contacts-service/internal/infrastructure/memory"
	"github.com/baechuer/contacts-service/internal/infrastructure/security"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
)

type capturePublisher struct {
	mu   sync.Mutex
	evts []auth.VerifyEmailEvent
}

func (p *capturePublisher) PublishVerifyEmail(_ context.Context, evt auth.VerifyEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evts = append(p.evts, evt)
	return nil
}

func (p *capturePublisher) lastToken(t *testing.T) string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.evts) == 0 {
		t.Fatalf("no verification event published")
	}
	u, err := url.Parse(p.evts[len(p.evts)-1].URL)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	return u.Query().Get("token")
}

type memAvatars struct {
	got auth.AvatarUpload
	n   int
}

func (a *memAvatars) PutAvatar(_ context.Context, userID int64, up auth.AvatarUpload) (string, error) {
	a.n++
	a.got = up
	_, _ = io.Copy(io.Discard, up.Body)
	return "http://cdn.test/avatars/1/a.png", nil
}

type testEnv struct {
	users    *memory.UserRepo
	tokens   *security.JWTTokens
	pub      *capturePublisher
	avatars  *memAvatars
	authSvc  *auth.Service
	auth     *AuthHandler
	contacts *ContactsHandler
	notes    *NotesHandler
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	env := testEnv{
		users:   memory.NewUserRepo(),
		tokens:  security.NewJWTTokens("test-secret", "contacts-test"),
		pub:     &capturePublisher{},
		avatars: &memAvatars{},
	}
	env.authSvc = auth.NewService(
		env.users,
		security.NewBcryptHasher(bcrypt.MinCost),
		env.tokens,
		env.pub,
		auth.Config{PublicBaseURL: "http://api.test"},
	).WithAvatarStore(env.avatars)

	env.auth = NewAuthHandler(env.authSvc, 1024)
	env.contacts = NewContactsHandler(contacts.NewService(memory.NewContactRepo()))
	env.notes = NewNotesHandler(notes.NewService(memory.NewNoteRepo()))
	return env
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, r io.Reader, out any) {
	t.Helper()

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Data) == 0 {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", string(raw), err)
	}
}

func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, rr.Body.String())
	}
	return body.Error.Code
}

func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// withURLParam injects chi URL param (e.g. /contacts/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func formRequest(target string, vals url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// register runs the register handler and returns the new user id.
func (e testEnv) register(t *testing.T, email, password string) int64 {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/register/", mustJSONBody(t, map[string]string{
		"email": email, "password": password,
	}))
	rr := httptest.NewRecorder()
	e.auth.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var u struct {
		ID int64 `json:"id"`
	}
	mustReadData(t, rr.Body, &u)
	return u.ID
}

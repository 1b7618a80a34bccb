package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64

	getByEmailErr  error
	setVerifiedErr error

	verifyCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[int64]domain.User{},
		byEmail: map[string]int64{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, email, hash string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = domain.NormalizeEmail(email)
	if _, ok := f.byEmail[email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.nextID++
	u := domain.User{ID: f.nextID, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	f.byID[u.ID] = u
	f.byEmail[email] = u.ID
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	id, ok := f.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) SetEmailVerified(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verifyCalls++
	if f.setVerifiedErr != nil {
		return f.setVerifiedErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.EmailVerified = true
	f.byID[id] = u
	return nil
}

func (f *fakeUserRepo) SetAvatarURL(ctx context.Context, id int64, url string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.AvatarURL = url
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserRepo) user(t *testing.T, id int64) domain.User {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		t.Fatalf("user %d not stored", id)
	}
	return u
}

// fakeHasher stores "hash:<pw>" unless hashFn is set.
type fakeHasher struct {
	hashFn func(string) (string, error)
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Verify(pw, digest string) bool {
	return digest == "hash:"+pw
}

// fakeTokens encodes purpose|subject|expiry-unix-nano with a controllable clock.
type fakeTokens struct {
	mu       sync.Mutex
	now      time.Time
	issueErr error
	issued   []TokenPurpose
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{now: time.Now()}
}

func (f *fakeTokens) Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issued = append(f.issued, purpose)
	return fmt.Sprintf("%s|%s|%d", purpose, subject, f.now.Add(ttl).UnixNano()), nil
}

func (f *fakeTokens) Validate(token string) TokenResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(token, "|")
	if len(parts) != 3 {
		return TokenResult{Status: TokenInvalid}
	}
	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return TokenResult{Status: TokenInvalid}
	}
	if !time.Unix(0, exp).After(f.now) {
		return TokenResult{Status: TokenExpired}
	}
	return TokenResult{Status: TokenValid, Subject: parts[1], Purpose: TokenPurpose(parts[0])}
}

func (f *fakeTokens) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []VerifyEmailEvent
}

func (p *fakePublisher) PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *fakePublisher) last(t *testing.T) VerifyEmailEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		t.Fatalf("expected a published verification event")
	}
	return p.events[len(p.events)-1]
}

type fakeAvatars struct {
	err  error
	body string
}

func (a *fakeAvatars) PutAvatar(ctx context.Context, userID int64, up AvatarUpload) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	b, _ := io.ReadAll(up.Body)
	a.body = string(b)
	return fmt.Sprintf("https://cdn.example.com/avatars/%d.png", userID), nil
}

type auditEntry struct {
	action string
	fields map[string]string
}

type testEnv struct {
	svc    *Service
	users  *fakeUserRepo
	hasher *fakeHasher
	tokens *fakeTokens
	pub    *fakePublisher
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) testEnv {
	t.Helper()

	env := testEnv{
		users:  newFakeUserRepo(),
		hasher: &fakeHasher{},
		tokens: newFakeTokens(),
		pub:    &fakePublisher{},
		audits: &[]auditEntry{},
	}
	var mu sync.Mutex
	env.svc = NewService(env.users, env.hasher, env.tokens, env.pub, Config{
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		PublicBaseURL: "http://localhost:8000/",
	}).WithAudit(func(action string, fields map[string]string) {
		mu.Lock()
		defer mu.Unlock()
		*env.audits = append(*env.audits, auditEntry{action: action, fields: fields})
	})
	return env
}

func (e testEnv) hasAudit(action string) bool {
	for _, a := range *e.audits {
		if a.action == action {
			return true
		}
	}
	return false
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

// VerifyEmailTTL is the fixed lifetime of an email-verification token.
const VerifyEmailTTL = 24 * time.Hour

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	tokenTypeBearer   = "bearer"
)

type Service struct {
	users   UserRepo
	hasher  PasswordHasher
	tokens  TokenService
	pub     EventPublisher
	avatars AvatarStore

	accessTTL  time.Duration
	refreshTTL time.Duration
	audit      func(action string, fields map[string]string)

	// e.g. https://api.example.com ; the service appends /verify/?token=...
	publicBaseURL string
}

type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	PublicBaseURL string
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	tokens TokenService,
	pub EventPublisher,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		pub:    pub,
		audit:  func(string, map[string]string) {},

		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,

		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// AuthTokens is the token pair returned by login and refresh.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds
	TokenType    string
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithAvatarStore enables UpdateAvatar. Without it the operation reports
// domain.ErrAvatarUploadDisabled.
func (s *Service) WithAvatarStore(st AvatarStore) *Service {
	s.avatars = st
	return s
}

// issueTokens issues an access token + refresh token for a user.
func (s *Service) issueTokens(userID int64) (AuthTokens, error) {
	sub := subjectOf(userID)

	access, err := s.tokens.Issue(sub, PurposeAccess, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}
	refresh, err := s.tokens.Issue(sub, PurposeRefresh, s.refreshTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// subjectFor validates token and returns the user id it names, provided the
// token is valid and was issued for purpose.
func (s *Service) subjectFor(token string, purpose TokenPurpose) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, domain.ErrInvalidOrExpiredToken()
	}

	res := s.tokens.Validate(token)
	if res.Status != TokenValid || res.Purpose != purpose {
		return 0, domain.ErrInvalidOrExpiredToken()
	}

	id, err := strconv.ParseInt(res.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidOrExpiredToken()
	}
	return id, nil
}

func subjectOf(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

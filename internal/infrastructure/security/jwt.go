package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/contacts-service/internal/application/auth"
)

// JWTTokens signs and validates HS256 tokens for every auth.TokenPurpose.
type JWTTokens struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTTokens(secret string, issuer string) *JWTTokens {
	return &JWTTokens{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (s *JWTTokens) Issue(subject string, purpose auth.TokenPurpose, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *JWTTokens) Validate(token string) auth.TokenResult {
	if token == "" {
		return auth.TokenResult{Status: auth.TokenInvalid}
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenResult{Status: auth.TokenExpired}
		}
		return auth.TokenResult{Status: auth.TokenInvalid}
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return auth.TokenResult{Status: auth.TokenInvalid}
	}

	return auth.TokenResult{
		Status:  auth.TokenValid,
		Subject: c.Subject,
		Purpose: auth.TokenPurpose(c.Purpose),
	}
}

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_ErrorString_NoCause(t *testing.T) {
	err := New(KindAuth, "invalid_credentials", "invalid email or password")

	if msg := err.Error(); msg != "auth (invalid_credentials): invalid email or password" {
		t.Fatalf("unexpected error string: %q", msg)
	}
}

func TestError_ErrorString_WithCause(t *testing.T) {
	root := errors.New("root cause")
	err := Wrap(KindInternal, "hash_failed", "hash failed", root)

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}
}

func TestError_Unwrap(t *testing.T) {
	root := errors.New("root")
	err := Wrap(KindInternal, "internal_error", "internal", root)

	if errors.Unwrap(err) != root {
		t.Fatalf("unwrap did not return cause")
	}
}

func TestWithMeta_AttachesMeta(t *testing.T) {
	err := ErrMissingField("email")

	if err.Meta["field"] != "email" {
		t.Fatalf("unexpected meta value: %+v", err.Meta)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := ErrInvalidCredentials()

	if !Is(err, "invalid_credentials") {
		t.Fatalf("expected code match")
	}
	if Is(err, "something_else") {
		t.Fatalf("unexpected code match")
	}
}

func TestIs_WrappedDomainError(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrContactNotFound())

	if !Is(err, "contact_not_found") {
		t.Fatalf("expected code match through wrapping")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("unexpected kind: %q", KindOf(err))
	}
}

func TestIs_NonDomainError(t *testing.T) {
	err := errors.New("plain error")

	if Is(err, "invalid_credentials") {
		t.Fatalf("should not match non-domain error")
	}
	if KindOf(err) != "" {
		t.Fatalf("expected empty kind")
	}
}

func TestTaxonomyKinds(t *testing.T) {
	cases := []struct {
		err  *Error
		kind ErrKind
		code string
	}{
		{ErrEmailAlreadyExists(), KindConflict, "email_already_exists"},
		{ErrInvalidCredentials(), KindAuth, "invalid_credentials"},
		{ErrInvalidOrExpiredToken(), KindAuth, "invalid_or_expired_token"},
		{ErrContactNotFound(), KindNotFound, "contact_not_found"},
		{ErrNoteNotFound(), KindNotFound, "note_not_found"},
		{ErrUserNotFound(), KindNotFound, "user_not_found"},
		{ErrInvalidField("email", "bad format"), KindValidation, "invalid_field"},
		{ErrFileTooLarge(10), KindTooLarge, "file_too_large"},
	}
	for _, tc := range cases {
		if tc.err.Kind != tc.kind || tc.err.Code != tc.code {
			t.Fatalf("unexpected error: %+v", tc.err)
		}
	}
}

func TestRateLimitedError(t *testing.T) {
	err := ErrRateLimited("register")
	if err.Kind != KindRateLimited {
		t.Fatalf("unexpected kind")
	}
	if err.Meta["scope"] != "register" {
		t.Fatalf("unexpected meta")
	}
}

func TestInfrastructureErrors(t *testing.T) {
	root := errors.New("boom")
	err := ErrDBUnavailable(root)

	if err.Kind != KindInfrastructure {
		t.Fatalf("unexpected kind")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected wrapped cause")
	}
}

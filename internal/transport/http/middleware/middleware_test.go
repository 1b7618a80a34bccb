package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/contacts-service/internal/logger"
	appCtx "github.com/baechuer/contacts-service/internal/pkg/context"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(HeaderXRequestID) != seen {
		t.Fatalf("expected generated id in ctx and header, got %q / %q", seen, rr.Header().Get(HeaderXRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "client-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "client-id" {
		t.Fatalf("expected client id propagated, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", 500))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) > maxRequestIDLen {
		t.Fatalf("oversized id must be replaced")
	}
}

func TestAccessLog_WritesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.Options{Format: "json"})
	t.Cleanup(func() { logger.InitWithWriter(&bytes.Buffer{}, logger.Options{}) })

	h := RequestID(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hi"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contacts/", nil))

	out := buf.String()
	for _, want := range []string{`"status":201`, `"bytes":2`, `"path":"/contacts/"`, `"request_id":`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/contacts/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/contacts/9", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected handler status preserved, got %d", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff")
	}
}

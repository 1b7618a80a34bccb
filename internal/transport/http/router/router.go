package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	Token(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)

	// Authenticated
	Me(w http.ResponseWriter, r *http.Request)
	UpdateAvatar(w http.ResponseWriter, r *http.Request)
}

type ContactsHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type NotesHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Contacts ContactsHandler
	Notes    NotesHandler

	// Metrics serves /metrics; nil leaves the route unmounted.
	Metrics http.Handler

	RequestIDMW    func(http.Handler) http.Handler
	AuthMW         func(http.Handler) http.Handler
	InternalAuthMW func(http.Handler) http.Handler

	// Global middleware applied after request id, in order.
	Middlewares []func(http.Handler) http.Handler

	// Rate limits; nil disables.
	RLRegister       func(http.Handler) http.Handler
	RLContactsCreate func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Contacts == nil {
		return nil, fmt.Errorf("nil Contacts handler")
	}
	if deps.Notes == nil {
		return nil, fmt.Errorf("nil Notes handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	if deps.RequestIDMW != nil {
		r.Use(deps.RequestIDMW)
	}
	r.Use(chimw.Recoverer)
	for _, mw := range deps.Middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	if deps.Metrics != nil {
		if deps.InternalAuthMW != nil {
			r.With(deps.InternalAuthMW).Method(http.MethodGet, "/metrics", deps.Metrics)
		} else {
			r.Method(http.MethodGet, "/metrics", deps.Metrics)
		}
	}

	// --- Accounts ---
	r.With(opt(deps.RLRegister)...).Post("/register/", deps.Auth.Register)
	r.Get("/verify/", deps.Auth.VerifyEmail) // ?token=...
	r.Post("/token/", deps.Auth.Token)
	r.Post("/token/refresh/", deps.Auth.Refresh)

	r.Route("/users", func(r chi.Router) {
		r.Use(deps.AuthMW)
		r.Get("/me/", deps.Auth.Me)
		r.Put("/avatar/", deps.Auth.UpdateAvatar)
		r.Patch("/avatar/", deps.Auth.UpdateAvatar)
	})

	// --- Contacts ---
	r.Route("/contacts", func(r chi.Router) {
		r.Use(deps.AuthMW)

		r.With(opt(deps.RLContactsCreate)...).Post("/", deps.Contacts.Create)
		r.Get("/", deps.Contacts.List)
		r.Get("/{id}", deps.Contacts.Get)
		r.Put("/{id}", deps.Contacts.Update)
		r.Patch("/{id}", deps.Contacts.Update)
		r.Delete("/{id}", deps.Contacts.Delete)
	})

	// --- Notes ---
	r.Route("/notes", func(r chi.Router) {
		r.Get("/", deps.Notes.List)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Post("/", deps.Notes.Create)
			r.Put("/{id}", deps.Notes.Update)
			r.Delete("/{id}", deps.Notes.Delete)
		})
	})

	return r, nil
}

func opt(mw func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	if mw == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{mw}
}

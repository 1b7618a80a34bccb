package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/contacts-service/internal/domain"
)

// pathID reads the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidField("id", "must be a positive integer")
	}
	return id, nil
}

// pageParams reads ?skip=&limit=. Absent values are zero and left for the
// service to default; an explicit limit=0 gets the default page size too,
// not an empty page.
func pageParams(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	if skip, err = queryInt(q.Get("skip"), "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(field, "must be an integer")
	}
	if n < 0 {
		return 0, domain.ErrInvalidField(field, "must be >= 0")
	}
	return n, nil
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wraps h with request ID, logging and panic recovery. Every
// method and path reaches h so the gate alone decides what is rejected.
func NewRouter(h http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Recoverer)

	r.Handle("/*", h)
	r.NotFound(h.ServeHTTP)
	r.MethodNotAllowed(h.ServeHTTP)

	return r
}

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the session router. Both middlewares run on every request:
// identity first, then the gate.
func (h *Handler) Routes(optionalAuth, gate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(optionalAuth, gate)
	r.Get("/", h.Get)
	return r
}

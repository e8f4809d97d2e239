package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the order router for signed-in users. idem guards placement
// against client retries.
func (h *Handler) Routes(authMiddleware, idem func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.With(idem).Post("/", h.Place)
	r.Get("/my", h.My)
	r.Get("/{id}", h.Get)
	return r
}

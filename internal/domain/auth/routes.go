package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns auth router. Register, login and refresh are public;
// logout and me need a valid access token.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	signedIn := r.With(authMiddleware)
	signedIn.Post("/logout", h.Logout)
	signedIn.Get("/me", h.Me)

	return r
}

package wallet

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns wallet router. idem guards the deposit against client retries.
func (h *Handler) Routes(authMiddleware, idem func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/balance", h.Balance)
	r.With(idem).Post("/deposit", h.Deposit)
	r.Get("/transactions", h.Transactions)
	return r
}

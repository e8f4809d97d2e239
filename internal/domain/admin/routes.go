package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialboost/boost-api/internal/middleware"
)

// Routes returns admin router. Every route requires a signed-in admin.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware, middleware.RequireAdmin())

	r.Get("/control", h.Control)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Patch("/{id}", h.UpdateUser)
		r.Post("/{id}/block", h.BlockUser)
		r.Post("/{id}/balance", h.AdjustBalance)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Patch("/{id}/status", h.UpdateOrderStatus)
		r.Post("/{id}/refund", h.RefundOrder)
	})

	if h.services != nil {
		r.Mount("/services", h.services)
	}
	r.Get("/transactions", h.Transactions)
	r.Get("/audit", h.AuditLogs)

	return r
}

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/socialboost/boost-api/internal/domain/admin"
	"github.com/socialboost/boost-api/internal/domain/auth"
	"github.com/socialboost/boost-api/internal/domain/catalog"
	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/session"
	"github.com/socialboost/boost-api/internal/domain/wallet"
	"github.com/socialboost/boost-api/internal/middleware"
	pkgresponse "github.com/socialboost/boost-api/internal/pkg/response"
)

type handlers struct {
	auth    *auth.Handler
	profile *profile.Handler
	catalog *catalog.Handler
	order   *order.Handler
	wallet  *wallet.Handler
	session *session.Handler
	admin   *admin.Handler
	ws      http.HandlerFunc
}

type routerConfig struct {
	handlers

	auth         func(http.Handler) http.Handler
	optionalAuth func(http.Handler) http.Handler
	gate         func(http.Handler) http.Handler
	idempotency  func(http.Handler) http.Handler

	allowedOrigins []string
	// uploadsDir is served under /uploads when avatars are stored locally.
	uploadsDir string
}

func newRouter(cfg routerConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.allowedOrigins))

	// WebSocket endpoint (before Compress)
	if cfg.ws != nil {
		r.With(cfg.auth).Get("/ws", cfg.ws)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if cfg.uploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.uploadsDir)))
		r.Handle("/uploads/*", fs)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", cfg.handlers.auth.Routes(cfg.auth))
		r.Mount("/profiles", cfg.handlers.profile.Routes(cfg.auth))
		r.Mount("/services", cfg.handlers.catalog.Routes())
		r.Mount("/orders", cfg.handlers.order.Routes(cfg.auth, cfg.idempotency))
		r.Mount("/wallet", cfg.handlers.wallet.Routes(cfg.auth, cfg.idempotency))
		r.Mount("/session", cfg.handlers.session.Routes(cfg.optionalAuth, cfg.gate))
		r.Mount("/admin", cfg.handlers.admin.Routes(cfg.auth))
	})

	return r
}

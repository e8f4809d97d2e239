package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/admin"
	"github.com/socialboost/boost-api/internal/domain/auth"
	"github.com/socialboost/boost-api/internal/domain/catalog"
	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/session"
	"github.com/socialboost/boost-api/internal/domain/wallet"
	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/jwt"
)

type noProfiles struct{}

func (noProfiles) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return nil, nil
}

func testRouter(t *testing.T) (http.Handler, *jwt.Service) {
	t.Helper()
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	passthrough := func(next http.Handler) http.Handler { return next }

	catalogHandler := catalog.NewHandler(nil)
	r := newRouter(routerConfig{
		handlers: handlers{
			auth:    auth.NewHandler(nil),
			profile: profile.NewHandler(nil),
			catalog: catalogHandler,
			order:   order.NewHandler(nil),
			wallet:  wallet.NewHandler(nil),
			session: session.NewHandler(),
			admin:   admin.NewHandler(nil, catalogHandler.AdminRoutes()),
		},
		auth:         middleware.Auth(jwtSvc),
		optionalAuth: middleware.OptionalAuth(jwtSvc),
		gate:         session.Middleware(session.NewProfiles(noProfiles{}, nil, time.Minute)),
		idempotency:  passthrough,
	})
	return r, jwtSvc
}

func TestHealthAndPing(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{"/health", "/api/v1/ping"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders/my"},
		{http.MethodGet, "/api/v1/wallet/balance"},
		{http.MethodPost, "/api/v1/wallet/deposit"},
		{http.MethodGet, "/api/v1/profiles/me"},
		{http.MethodGet, "/api/v1/admin/control"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestAdminRoutesRejectUserRole(t *testing.T) {
	r, jwtSvc := testRouter(t)
	token, err := jwtSvc.GenerateAccessToken(uuid.New(), string(profile.RoleUser))
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	for _, path := range []string{"/api/v1/admin/control", "/api/v1/admin/services", "/api/v1/admin/orders"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, w.Code)
		}
	}
}

func TestSessionAnonymousRedirectsToLogin(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/?path=/orders", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data session.View `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.State != session.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", body.Data.State)
	}
	if body.Data.Decision.RedirectTo != session.LoginPath {
		t.Fatalf("expected redirect to login, got %+v", body.Data.Decision)
	}
}

func TestChainOrder(t *testing.T) {
	var seen []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := chain(mark("a"), mark("b"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("unexpected order: %v", seen)
	}
}

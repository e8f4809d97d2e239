package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

// Middleware builds a Gate for every request from the identity set by
// middleware.Auth or middleware.OptionalAuth. Signed-in callers get their
// role refreshed from the stored profile so demotions apply at once.
// Blocked profiles are rejected.
func Middleware(profiles *Profiles) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := middleware.GetUserID(r.Context())
			gate := NewGate(func(ctx context.Context) (*profile.Profile, error) {
				if userID == uuid.Nil {
					return nil, nil
				}
				return profiles.Load(ctx, userID)
			})

			ctx := r.Context()
			if gate.Refresh(ctx) == StateAuthenticated {
				p := gate.Profile()
				if p.IsBlocked() {
					response.Forbidden(w, "Account is blocked")
					return
				}
				ctx = middleware.WithIdentity(ctx, p.ID, string(p.Role))
			} else if userID != uuid.Nil {
				response.Unauthorized(w, "Session is no longer valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithGate(ctx, gate)))
		})
	}
}

package session

import (
	"context"
	"sync"

	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/pkg/logger"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateChecking        State = "checking"
	StateAuthenticated   State = "authenticated"
)

const (
	LoginPath        = "/login"
	RegisterPath     = "/register"
	UserLandingPath  = "/"
	AdminLandingPath = "/admin/control"
)

// Decision tells a view whether to render, wait or navigate elsewhere.
type Decision struct {
	Allow      bool   `json:"allow"`
	Wait       bool   `json:"wait"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Loader fetches the current profile. A nil profile means nobody is signed in.
type Loader func(ctx context.Context) (*profile.Profile, error)

// Gate tracks one caller's session: the loaded profile, whether a load is in
// flight, and how to reload it.
type Gate struct {
	mu      sync.RWMutex
	profile *profile.Profile
	loading bool
	refresh Loader
}

// NewGate returns a gate in the checking state. Call Refresh to settle it.
func NewGate(refresh Loader) *Gate {
	return &Gate{loading: true, refresh: refresh}
}

// Refresh re-enters checking, reloads the profile and settles the gate.
// A failed load settles as unauthenticated.
func (g *Gate) Refresh(ctx context.Context) State {
	g.mu.Lock()
	g.loading = true
	g.mu.Unlock()

	p, err := g.refresh(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("session profile load failed")
		p = nil
	}

	g.mu.Lock()
	g.profile = p
	g.loading = false
	g.mu.Unlock()

	return g.State()
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch {
	case g.loading:
		return StateChecking
	case g.profile == nil:
		return StateUnauthenticated
	default:
		return StateAuthenticated
	}
}

// Profile returns the settled profile, or nil.
func (g *Gate) Profile() *profile.Profile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.loading {
		return nil
	}
	return g.profile
}

// Decide reports what a view at path guarded by requiredRole should do.
// An empty requiredRole only requires a signed-in user.
func (g *Gate) Decide(path string, requiredRole profile.Role) Decision {
	switch g.State() {
	case StateChecking:
		return Decision{Wait: true}
	case StateUnauthenticated:
		if path == LoginPath || path == RegisterPath {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: LoginPath}
	}

	p := g.Profile()
	if requiredRole == "" || p.Role == requiredRole {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: landingFor(requiredRole)}
}

// landingFor is where a caller lacking the required role is sent.
func landingFor(required profile.Role) string {
	if required == profile.RoleAdmin {
		return UserLandingPath
	}
	return AdminLandingPath
}

type ctxKey struct{}

// WithGate stores g in ctx.
func WithGate(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, ctxKey{}, g)
}

// FromContext returns the request's gate, or nil.
func FromContext(ctx context.Context) *Gate {
	g, _ := ctx.Value(ctxKey{}).(*Gate)
	return g
}

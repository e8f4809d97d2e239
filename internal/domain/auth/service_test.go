package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/user"
	"github.com/socialboost/boost-api/internal/pkg/events"
	"github.com/socialboost/boost-api/internal/pkg/jwt"
)

// fakeStore backs users, profiles and refresh tokens for the auth tests.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*user.User
	profiles map[uuid.UUID]*profile.Profile
	tokens   map[string]*RefreshTokenRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*user.User{},
		profiles: map[uuid.UUID]*profile.Profile{},
		tokens:   map[string]*RefreshTokenRecord{},
	}
}

func (f *fakeStore) Create(ctx context.Context, u *user.User, fullName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return user.ErrEmailAlreadyExists
	}
	u.CreatedAt = time.Now()
	f.users[u.Email] = u
	f.profiles[u.ID] = &profile.Profile{ID: u.ID, Email: u.Email, FullName: fullName, Role: profile.RoleUser}
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[email], nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeStore) Count(ctx context.Context) (int, error)         { return len(f.users), nil }

type fakeProfiles struct{ store *fakeStore }

func (p fakeProfiles) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	pr, ok := p.store.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *pr
	return &cp, nil
}

type fakeTokens struct{ store *fakeStore }

func (t fakeTokens) Create(ctx context.Context, rec *RefreshTokenRecord) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.tokens[rec.TokenHash] = rec
	return nil
}

func (t fakeTokens) GetByTokenHash(ctx context.Context, hash string) (*RefreshTokenRecord, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rec, ok := t.store.tokens[hash]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (t fakeTokens) MarkUsed(ctx context.Context, hash string) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rec, ok := t.store.tokens[hash]
	if !ok || rec.UsedAt.Valid {
		return false, nil
	}
	rec.UsedAt = sql.NullTime{Time: time.Now(), Valid: true}
	return true, nil
}

func (t fakeTokens) RevokeByTokenHash(ctx context.Context, hash string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if rec, ok := t.store.tokens[hash]; ok {
		rec.RevokedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}
	return nil
}

func (t fakeTokens) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, rec := range t.store.tokens {
		if rec.UserID == userID {
			rec.RevokedAt = sql.NullTime{Time: time.Now(), Valid: true}
		}
	}
	return nil
}

func newTestService() (*Service, *fakeStore, *events.Bus) {
	store := newFakeStore()
	bus := events.NewBus()
	jwtService := jwt.NewService("secret", time.Minute, time.Hour)
	return NewService(store, fakeProfiles{store}, fakeTokens{store}, jwtService, bus), store, bus
}

func collect(svc *Service) (*[]events.Type, func()) {
	var mu sync.Mutex
	got := []events.Type{}
	unsub := svc.Subscribe(func(e events.Event) {
		mu.Lock()
		got = append(got, e.Type)
		mu.Unlock()
	})
	return &got, unsub
}

func TestRegisterCreatesUserProfileAndPublishes(t *testing.T) {
	svc, store, _ := newTestService()
	got, unsub := collect(svc)
	defer unsub()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "  New@Example.com ", Password: "password123", FullName: " Ada ",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Profile.Email != "new@example.com" || resp.Profile.FullName != "Ada" || resp.Profile.Role != profile.RoleUser {
		t.Fatalf("unexpected profile %+v", resp.Profile)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" || resp.Tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected tokens %+v", resp.Tokens)
	}
	if len(store.tokens) != 1 {
		t.Fatalf("expected one stored refresh token, got %d", len(store.tokens))
	}
	if len(*got) != 1 || (*got)[0] != events.Registered {
		t.Fatalf("expected registered event, got %v", *got)
	}

	_, err = svc.Register(context.Background(), &RegisterRequest{Email: "new@example.com", Password: "password123", FullName: "Ada"}, ClientInfo{})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginRejectsBadPasswordAndBlockedProfile(t *testing.T) {
	svc, store, _ := newTestService()
	resp, err := svc.Register(context.Background(), &RegisterRequest{Email: "a@b.co", Password: "password123", FullName: "A"}, ClientInfo{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "a@b.co", Password: "wrong-password"}, ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "A@B.co", Password: "password123"}, ClientInfo{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.profiles[resp.Profile.ID].Role = profile.RoleBlocked
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "a@b.co", Password: "password123"}, ClientInfo{}); !errors.Is(err, ErrProfileBlocked) {
		t.Fatalf("expected ErrProfileBlocked, got %v", err)
	}
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	svc, _, _ := newTestService()
	resp, err := svc.Register(context.Background(), &RegisterRequest{Email: "r@b.co", Password: "password123", FullName: "R"}, ClientInfo{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, unsub := collect(svc)
	defer unsub()

	first := resp.Tokens.RefreshToken
	rotated, err := svc.Refresh(context.Background(), first, ClientInfo{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.Tokens.RefreshToken == first {
		t.Fatal("refresh token must rotate")
	}

	// Replaying the first token revokes the rotated one too.
	if _, err := svc.Refresh(context.Background(), first, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken on reuse, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), rotated.Tokens.RefreshToken, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected rotated token revoked, got %v", err)
	}

	want := []events.Type{events.TokenRefreshed, events.SignedOut}
	if len(*got) != len(want) || (*got)[0] != want[0] || (*got)[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, *got)
	}

	if _, err := svc.Refresh(context.Background(), "", ClientInfo{}); !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService()
	resp, _ := svc.Register(context.Background(), &RegisterRequest{Email: "l@b.co", Password: "password123", FullName: "L"}, ClientInfo{})
	got, unsub := collect(svc)
	defer unsub()

	if err := svc.Logout(context.Background(), resp.Profile.ID, resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken, ClientInfo{}); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
	if len(*got) != 1 || (*got)[0] != events.SignedOut {
		t.Fatalf("expected signed_out, got %v", *got)
	}
}

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/user"
	"github.com/socialboost/boost-api/internal/pkg/events"
	"github.com/socialboost/boost-api/internal/pkg/jwt"
	"github.com/socialboost/boost-api/internal/pkg/password"
)

// ProfileReader loads the profile attached to an account.
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// Service handles authentication business logic
type Service struct {
	userRepo    user.Repository
	profiles    ProfileReader
	refreshRepo RefreshTokenStore
	jwtService  *jwt.Service
	bus         *events.Bus
}

// NewService creates auth service
func NewService(userRepo user.Repository, profiles ProfileReader, refreshRepo RefreshTokenStore, jwtService *jwt.Service, bus *events.Bus) *Service {
	return &Service{
		userRepo:    userRepo,
		profiles:    profiles,
		refreshRepo: refreshRepo,
		jwtService:  jwtService,
		bus:         bus,
	}
}

// Subscribe registers fn for session-change events. The returned function
// removes the subscription.
func (s *Service) Subscribe(fn events.Handler) (unsubscribe func()) {
	return s.bus.Subscribe(fn)
}

// Register creates an account with a fresh user profile and signs it in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest, client ClientInfo) (*AuthResponse, error) {
	req.Email = NormalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, u, strings.TrimSpace(req.FullName)); err != nil {
		return nil, err
	}

	p, err := s.loadProfile(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	resp, err := s.generateTokens(ctx, p, client)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("account registered")
	s.bus.Publish(events.Registered, u.ID)
	return resp, nil
}

// Login authenticates user. Blocked profiles cannot sign in.
func (s *Service) Login(ctx context.Context, req *LoginRequest, client ClientInfo) (*AuthResponse, error) {
	req.Email = NormalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	p, err := s.loadProfile(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if p.IsBlocked() {
		return nil, ErrProfileBlocked
	}

	resp, err := s.generateTokens(ctx, p, client)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.SignedIn, u.ID)
	return resp, nil
}

// Refresh rotates a refresh token. Presenting an already used token revokes
// every token of that user.
func (s *Service) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	rec, err := s.refreshRepo.GetByTokenHash(ctx, refreshHash)
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if rec == nil || rec.RevokedAt.Valid || time.Now().After(rec.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	fresh, err := s.refreshRepo.MarkUsed(ctx, refreshHash)
	if err != nil {
		return nil, fmt.Errorf("mark refresh token used: %w", err)
	}
	if !fresh {
		log.Warn().Str("user_id", rec.UserID.String()).Msg("refresh token reuse detected, revoking all sessions")
		if err := s.refreshRepo.RevokeAllByUserID(ctx, rec.UserID); err != nil {
			log.Error().Err(err).Str("user_id", rec.UserID.String()).Msg("failed to revoke refresh tokens")
		}
		s.bus.Publish(events.SignedOut, rec.UserID)
		return nil, ErrInvalidRefreshToken
	}

	p, err := s.loadProfile(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	if p.IsBlocked() {
		return nil, ErrProfileBlocked
	}

	resp, err := s.generateTokens(ctx, p, client)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TokenRefreshed, p.ID)
	return resp, nil
}

// Logout invalidates the refresh token.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.refreshRepo.RevokeByTokenHash(ctx, jwt.HashRefreshToken(refreshToken)); err != nil {
			return err
		}
	}
	s.bus.Publish(events.SignedOut, userID)
	return nil
}

// GetCurrentUser returns the caller's profile.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return s.loadProfile(ctx, userID)
}

func (s *Service) loadProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}

// generateTokens creates access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, p *profile.Profile, client ClientInfo) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(p.ID, string(p.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	rec := &RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    p.ID,
		TokenHash: jwt.HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(s.jwtService.GetRefreshTTL()),
		UserAgent: client.UserAgent,
		IP:        client.IP,
	}
	if err := s.refreshRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		Profile: p,
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

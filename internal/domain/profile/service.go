package profile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/pkg/events"
	"github.com/socialboost/boost-api/internal/pkg/imaging"
	"github.com/socialboost/boost-api/internal/pkg/storage"
)

// AccountDeleter removes the account behind a profile.
type AccountDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles profile business logic
type Service struct {
	repo     Repository
	accounts AccountDeleter
	storage  storage.Storage
	images   *imaging.Processor
	bus      *events.Bus
}

// NewService creates profile service
func NewService(repo Repository, accounts AccountDeleter, store storage.Storage, images *imaging.Processor, bus *events.Bus) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		storage:  store,
		images:   images,
		bus:      bus,
	}
}

// GetByID returns a profile or ErrProfileNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// UpdateMe edits the caller's own display fields.
func (s *Service) UpdateMe(ctx context.Context, id uuid.UUID, req *UpdateMeRequest) (*Profile, error) {
	fields := UpdateFields{AvatarURL: req.AvatarURL}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		fields.FullName = &name
	}

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.ProfileUpdated, id)
	return p, nil
}

// UploadAvatar validates, crops and stores an avatar image and points the
// profile at it. The previous avatar is removed when it was stored by us.
func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, file io.Reader) (*Profile, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, _, err := storage.ReadValidated(file, storage.MaxAvatarSize, storage.AvatarMimeTypes)
	if err != nil {
		return nil, err
	}

	avatar, err := s.images.Avatar(data)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s%s", id, uuid.NewString(), storage.GetExtensionForMime(avatar.ContentType))
	if err := s.storage.Put(ctx, key, bytes.NewReader(avatar.Data), avatar.ContentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	url := s.storage.GetURL(key)
	p, err := s.repo.Update(ctx, id, UpdateFields{AvatarURL: &url})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned avatar")
		}
		return nil, err
	}

	if oldKey, ok := s.ownedKey(id, current.AvatarURL); ok {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			log.Warn().Err(err).Str("key", oldKey).Msg("failed to remove previous avatar")
		}
	}

	s.bus.Publish(events.ProfileUpdated, id)
	return p, nil
}

// ownedKey maps an avatar URL back to its storage key if it belongs to this profile.
func (s *Service) ownedKey(id uuid.UUID, url string) (string, bool) {
	prefix := "avatars/" + id.String() + "/"
	base := strings.TrimSuffix(s.storage.GetURL(prefix), prefix)
	if url == "" || !strings.HasPrefix(url, base+prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}

// List returns profiles for the admin user manager.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Profile, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.List(ctx, f)
}

// AdminUpdate edits another profile. Admins cannot change their own role.
func (s *Service) AdminUpdate(ctx context.Context, actorID, id uuid.UUID, req *AdminUpdateRequest) (*Profile, error) {
	fields := UpdateFields{FullName: req.FullName, AvatarURL: req.AvatarURL}
	if req.Role != nil {
		if actorID == id {
			return nil, ErrCannotModifySelf
		}
		role := Role(*req.Role)
		fields.Role = &role
	}

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	log.Info().Str("actor_id", actorID.String()).Str("profile_id", id.String()).Str("role", string(p.Role)).Msg("profile updated by admin")
	s.bus.Publish(events.ProfileUpdated, id)
	return p, nil
}

// Block sets the profile's role to blocked.
func (s *Service) Block(ctx context.Context, actorID, id uuid.UUID) (*Profile, error) {
	blocked := string(RoleBlocked)
	return s.AdminUpdate(ctx, actorID, id, &AdminUpdateRequest{Role: &blocked})
}

// Delete removes the account with its orders and ledger.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrCannotModifySelf
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("actor_id", actorID.String()).Str("profile_id", id.String()).Msg("account deleted by admin")
	s.bus.Publish(events.ProfileUpdated, id)
	return nil
}

func (s *Service) CountByRole(ctx context.Context) (map[Role]int, error) {
	return s.repo.CountByRole(ctx)
}

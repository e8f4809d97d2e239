package catalog

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Manager handles the service catalog business logic
type Manager struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) *Manager {
	if cache == nil {
		cache = noopCache{}
	}
	return &Manager{repo: repo, cache: cache}
}

// List returns all services, newest first.
func (s *Manager) List(ctx context.Context) ([]*Service, error) {
	if items, ok := s.cache.GetList(ctx); ok {
		return items, nil
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, items)
	return items, nil
}

// GetByID returns a service or ErrServiceNotFound.
func (s *Manager) GetByID(ctx context.Context, id int64) (*Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *Manager) Create(ctx context.Context, req *ServiceRequest) (*Service, error) {
	if req.PricePerUnit <= 0 {
		return nil, ErrInvalidPrice
	}
	svc := req.toService()
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	log.Info().Int64("service_id", svc.ID).Str("name", svc.Name).Msg("service created")
	return svc, nil
}

func (s *Manager) Update(ctx context.Context, id int64, req *ServiceRequest) (*Service, error) {
	if req.PricePerUnit <= 0 {
		return nil, ErrInvalidPrice
	}
	svc := req.toService()
	svc.ID = id
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	log.Info().Int64("service_id", id).Msg("service updated")
	return svc, nil
}

func (s *Manager) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	log.Info().Int64("service_id", id).Msg("service deleted")
	return nil
}

func (s *Manager) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

package admin

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/wallet"
)

// Profiles is the profile management the admin console needs.
type Profiles interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	List(ctx context.Context, f profile.ListFilter) ([]*profile.Profile, int, error)
	AdminUpdate(ctx context.Context, actorID, id uuid.UUID, req *profile.AdminUpdateRequest) (*profile.Profile, error)
	Block(ctx context.Context, actorID, id uuid.UUID) (*profile.Profile, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	CountByRole(ctx context.Context) (map[profile.Role]int, error)
}

// Orders is the order management the admin console needs.
type Orders interface {
	List(ctx context.Context, f order.ListFilter) ([]*order.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, to order.Status) (*order.Order, error)
	Refund(ctx context.Context, id int64) (*order.Result, error)
	CountByStatus(ctx context.Context) (map[order.Status]int, error)
}

// Ledger is the wallet access the admin console needs.
type Ledger interface {
	Adjust(ctx context.Context, userID uuid.UUID, amount int64, description string) (*wallet.Transaction, error)
	Search(ctx context.Context, f wallet.SearchFilter) ([]*wallet.Transaction, int, error)
	Totals(ctx context.Context) (*wallet.Totals, error)
}

// Catalog counts services.
type Catalog interface {
	Count(ctx context.Context) (int, error)
}

const detailListLimit = 50

// Service handles admin business logic
type Service struct {
	repo     Repository
	profiles Profiles
	orders   Orders
	ledger   Ledger
	catalog  Catalog
}

// NewService creates admin service
func NewService(repo Repository, profiles Profiles, orders Orders, ledger Ledger, catalog Catalog) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		orders:   orders,
		ledger:   ledger,
		catalog:  catalog,
	}
}

// Summary collects the control center counters.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	byRole, err := s.profiles.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.ledger.Totals(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		UsersByRole:    byRole,
		Services:       services,
		OrdersByStatus: byStatus,
		Ledger:         totals,
	}
	for _, n := range byRole {
		sum.Users += n
	}
	for _, n := range byStatus {
		sum.Orders += n
	}
	return sum, nil
}

// UserDetail returns a profile with its latest orders and ledger entries.
func (s *Service) UserDetail(ctx context.Context, id uuid.UUID) (*UserDetail, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, _, err := s.orders.List(ctx, order.ListFilter{UserID: &id, Limit: detailListLimit})
	if err != nil {
		return nil, err
	}
	txs, _, err := s.ledger.Search(ctx, wallet.SearchFilter{UserID: &id, Desc: true, Limit: detailListLimit})
	if err != nil {
		return nil, err
	}
	return &UserDetail{Profile: p, Orders: orders, Transactions: txs}, nil
}

// Audit records an admin action. Failures are logged, never returned.
func (s *Service) Audit(ctx context.Context, adminID uuid.UUID, action, entityType, entityID, ip string, details interface{}) {
	entry := &AuditLog{
		ID:         uuid.New(),
		AdminID:    uuid.NullUUID{UUID: adminID, Valid: adminID != uuid.Nil},
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
	}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = b
		}
	}

	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Str("entity_id", entityID).Msg("failed to write audit log")
	}
}

func (s *Service) ListAuditLogs(ctx context.Context, f AuditFilter) ([]*AuditLog, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.ListAuditLogs(ctx, f)
}

package wallet

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/domain/realtime"
	"github.com/socialboost/boost-api/internal/pkg/events"
)

const depositDescription = "Manual deposit"

// Notifier pushes realtime messages to a user's sockets.
type Notifier interface {
	Notify(userID uuid.UUID, msg realtime.Message)
}

type Service struct {
	repo     Repository
	notifier Notifier
	bus      *events.Bus
}

// NewService creates the service. bus receives BalanceChanged after every
// committed balance mutation so cached profiles are dropped; it may be nil.
func NewService(repo Repository, notifier Notifier, bus *events.Bus) *Service {
	return &Service{repo: repo, notifier: notifier, bus: bus}
}

func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Deposit credits the caller's wallet and records a deposit entry.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	t, err := s.repo.Apply(ctx, Entry{
		UserID:      userID,
		Type:        TypeDeposit,
		Amount:      amount,
		Description: depositDescription,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID.String()).Int64("amount", amount).Int64("balance_after", t.BalanceAfter).Msg("wallet deposit applied")
	s.notifyBalance(userID, t)
	return t, nil
}

// Adjust applies an admin correction of either sign. The balance may not go negative.
func (s *Service) Adjust(ctx context.Context, userID uuid.UUID, amount int64, description string) (*Transaction, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	t, err := s.repo.Apply(ctx, Entry{
		UserID:      userID,
		Type:        TypeAdjustment,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID.String()).Int64("amount", amount).Int64("balance_after", t.BalanceAfter).Msg("wallet adjustment applied")
	s.notifyBalance(userID, t)
	return t, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Transaction, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, (page-1)*limit)
}

func (s *Service) Search(ctx context.Context, f SearchFilter) ([]*Transaction, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.Search(ctx, f)
}

func (s *Service) Totals(ctx context.Context) (*Totals, error) {
	return s.repo.Totals(ctx)
}

func (s *Service) notifyBalance(userID uuid.UUID, t *Transaction) {
	s.bus.Publish(events.BalanceChanged, userID)
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, realtime.Message{
		Type: realtime.EventWalletBalance,
		Data: map[string]interface{}{"balance": t.BalanceAfter, "transaction": t},
	})
}

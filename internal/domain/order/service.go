package order

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/domain/realtime"
	"github.com/socialboost/boost-api/internal/pkg/events"
)

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

// Place validates the input locally, then charges the wallet and creates the
// order in one step. Local validation failures never reach the repository.
func (s *Service) Place(ctx context.Context, userID uuid.UUID, in PlaceInput) (*Result, error) {
	in.LinkOrTarget = strings.TrimSpace(in.LinkOrTarget)
	if in.ServiceID <= 0 || in.Quantity <= 0 || in.LinkOrTarget == "" {
		return nil, ErrInvalidInput
	}

	res, err := s.repo.PlaceOrder(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("order_id", res.Order.ID).
		Str("user_id", userID.String()).
		Int64("total_price", res.Order.TotalPrice).
		Msg("order placed")

	s.notify(userID, realtime.EventOrderCreated, res.Order)
	s.notifyBalance(userID, res)
	return res, nil
}

// GetByID returns an order or ErrOrderNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// GetForUser returns the order only when userID owns it.
func (s *Service) GetForUser(ctx context.Context, userID uuid.UUID, id int64) (*Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*Order, int, error) {
	return s.repo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Order, int, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus applies an admin status change. Asking for the current status
// returns the order untouched. Cancelling refunds the order total.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to Status) (*Order, error) {
	if !to.IsValid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == to {
		return o, nil
	}
	if !CanTransition(o.Status, to) {
		return nil, ErrInvalidStatusTransition
	}

	if to == StatusCancelled {
		res, err := s.Cancel(ctx, id)
		if err != nil {
			return nil, err
		}
		return res.Order, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, o.Status, to)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", id).Str("from", string(o.Status)).Str("to", string(to)).Msg("order status changed")
	s.notify(updated.UserID, realtime.EventOrderStatus, updated)
	return updated, nil
}

// Cancel moves a pending order to cancelled and refunds its total atomically.
func (s *Service) Cancel(ctx context.Context, id int64) (*Result, error) {
	res, err := s.repo.Refund(ctx, id, true)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", id).Int64("amount", res.Transaction.Amount).Msg("order cancelled and refunded")
	s.notify(res.Order.UserID, realtime.EventOrderStatus, res.Order)
	s.notify(res.Order.UserID, realtime.EventOrderRefunded, res)
	s.notifyBalance(res.Order.UserID, res)
	return res, nil
}

// Refund credits the order total back to its owner without touching the
// order status. An order can be refunded once.
func (s *Service) Refund(ctx context.Context, id int64) (*Result, error) {
	res, err := s.repo.Refund(ctx, id, false)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", id).Int64("amount", res.Transaction.Amount).Msg("order refunded")
	s.notify(res.Order.UserID, realtime.EventOrderRefunded, res)
	s.notifyBalance(res.Order.UserID, res)
	return res, nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) notify(userID uuid.UUID, t realtime.EventType, data interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, realtime.Message{Type: t, Data: data})
}

func (s *Service) notifyBalance(userID uuid.UUID, res *Result) {
	if res.Transaction == nil {
		return
	}
	s.bus.Publish(events.BalanceChanged, userID)
	s.notify(userID, realtime.EventWalletBalance, map[string]interface{}{
		"balance":     res.Transaction.BalanceAfter,
		"transaction": res.Transaction,
	})
}

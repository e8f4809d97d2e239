package wallet

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/realtime"
	"github.com/socialboost/boost-api/internal/pkg/events"
)

type fakeRepo struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
	ledger   []*Transaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{balances: map[uuid.UUID]int64{}}
}

func (f *fakeRepo) Apply(ctx context.Context, e Entry) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[e.UserID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	next, err := e.apply(balance)
	if err != nil {
		return nil, err
	}
	f.balances[e.UserID] = next
	desc := e.Description
	t := &Transaction{ID: int64(len(f.ledger) + 1), UserID: e.UserID, Type: e.Type, Amount: e.Amount, BalanceAfter: next, OrderID: e.OrderID, Description: &desc}
	f.ledger = append(f.ledger, t)
	return t, nil
}

func (f *fakeRepo) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[userID]
	if !ok {
		return 0, ErrProfileNotFound
	}
	return b, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Transaction
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.ledger[i].UserID == userID {
			out = append(out, f.ledger[i])
		}
	}
	total := len(out)
	if offset >= total {
		return []*Transaction{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (f *fakeRepo) Search(ctx context.Context, sf SearchFilter) ([]*Transaction, int, error) {
	return f.ledger, len(f.ledger), nil
}

func (f *fakeRepo) Totals(ctx context.Context) (*Totals, error) {
	return &Totals{Count: len(f.ledger)}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

func (n *recordingNotifier) Notify(userID uuid.UUID, msg realtime.Message) {
	n.mu.Lock()
	n.msgs = append(n.msgs, msg)
	n.mu.Unlock()
}

func TestDepositCreditsAndRecords(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)
	userID := uuid.New()
	repo.balances[userID] = 100

	tx, err := svc.Deposit(context.Background(), userID, 900)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if tx.Type != TypeDeposit || tx.Amount != 900 || tx.BalanceAfter != 1000 {
		t.Fatalf("unexpected entry %+v", tx)
	}
	if repo.balances[userID] != 1000 {
		t.Fatalf("expected balance 1000, got %d", repo.balances[userID])
	}
	if len(notifier.msgs) != 1 || notifier.msgs[0].Type != realtime.EventWalletBalance {
		t.Fatalf("expected one balance event, got %+v", notifier.msgs)
	}
}

func TestDepositRejectsNonPositive(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil)
	for _, amount := range []int64{0, -5} {
		if _, err := svc.Deposit(context.Background(), uuid.New(), amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestAdjustNeverOverdraws(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	userID := uuid.New()
	repo.balances[userID] = 50

	if _, err := svc.Adjust(context.Background(), userID, -51, "correction"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if repo.balances[userID] != 50 || len(repo.ledger) != 0 {
		t.Fatal("failed adjustment must not change anything")
	}

	if _, err := svc.Adjust(context.Background(), userID, -50, "  "); !errors.Is(err, ErrDescriptionRequired) {
		t.Fatalf("expected ErrDescriptionRequired, got %v", err)
	}

	tx, err := svc.Adjust(context.Background(), userID, -50, "chargeback")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if tx.BalanceAfter != 0 || tx.Type != TypeAdjustment {
		t.Fatalf("unexpected entry %+v", tx)
	}
}

func TestEntrySign(t *testing.T) {
	cases := []struct {
		e    Entry
		want bool
	}{
		{Entry{Type: TypeDeposit, Amount: 1}, true},
		{Entry{Type: TypeDeposit, Amount: -1}, false},
		{Entry{Type: TypeRefund, Amount: 5}, true},
		{Entry{Type: TypeOrder, Amount: -5}, true},
		{Entry{Type: TypeOrder, Amount: 5}, false},
		{Entry{Type: TypeAdjustment, Amount: -3}, true},
		{Entry{Type: TypeAdjustment, Amount: 0}, false},
		{Entry{Type: "bonus", Amount: 3}, false},
	}
	for _, c := range cases {
		if got := c.e.signOK(); got != c.want {
			t.Errorf("%s %d: got %v want %v", c.e.Type, c.e.Amount, got, c.want)
		}
	}
}

func TestDepositOverflowIsInvalidAmount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	userID := uuid.New()
	repo.balances[userID] = 1

	if _, err := svc.Deposit(context.Background(), userID, math.MaxInt64); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if repo.balances[userID] != 1 || len(repo.ledger) != 0 {
		t.Fatal("rejected deposit must not change anything")
	}

	// The largest credit that still fits is accepted.
	tx, err := svc.Deposit(context.Background(), userID, math.MaxInt64-1)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if tx.BalanceAfter != math.MaxInt64 {
		t.Fatalf("expected max balance, got %d", tx.BalanceAfter)
	}
}

func TestDepositAndAdjustPublishBalanceChanged(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	repo.balances[userID] = 0

	bus := events.NewBus()
	var got []events.Event
	bus.Subscribe(func(ev events.Event) { got = append(got, ev) })
	svc := NewService(repo, nil, bus)

	if _, err := svc.Deposit(context.Background(), userID, 100); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := svc.Adjust(context.Background(), userID, -40, "correction"); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, err := svc.Adjust(context.Background(), userID, -100, "too much"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if len(got) != 2 || got[0].Type != events.BalanceChanged || got[1].UserID != userID {
		t.Fatalf("unexpected events %+v", got)
	}
}

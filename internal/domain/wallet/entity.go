package wallet

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeOrder      TransactionType = "order"
	TypeRefund     TransactionType = "refund"
	TypeAdjustment TransactionType = "adjustment"
)

// Transaction is an append-only ledger entry.
type Transaction struct {
	ID           int64           `db:"id" json:"id"`
	UserID       uuid.UUID       `db:"user_id" json:"user_id"`
	Type         TransactionType `db:"type" json:"type"`
	Amount       int64           `db:"amount" json:"amount"`
	BalanceAfter int64           `db:"balance_after" json:"balance_after"`
	OrderID      *int64          `db:"order_id" json:"order_id,omitempty"`
	Description  *string         `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Entry is a balance change to be applied and recorded.
type Entry struct {
	UserID      uuid.UUID
	Type        TransactionType
	Amount      int64
	OrderID     *int64
	Description string
}

// signOK reports whether the amount's sign matches the entry type.
func (e Entry) signOK() bool {
	switch e.Type {
	case TypeDeposit, TypeRefund:
		return e.Amount > 0
	case TypeOrder:
		return e.Amount < 0
	case TypeAdjustment:
		return e.Amount != 0
	default:
		return false
	}
}

// Account is a profile balance row locked for update.
type Account struct {
	UserID  uuid.UUID `db:"id"`
	Role    string    `db:"role"`
	Balance int64     `db:"wallet_balance"`
}

// SearchFilter drives the admin ledger listing.
type SearchFilter struct {
	Search string // matches description or user id
	Type   TransactionType
	UserID *uuid.UUID
	Sort   string // created_at or amount
	Desc   bool
	Limit  int
	Offset int
}

// Totals summarises the ledger by type.
type Totals struct {
	Deposits    int64 `db:"deposits" json:"deposits"`
	Orders      int64 `db:"orders" json:"orders"`
	Refunds     int64 `db:"refunds" json:"refunds"`
	Adjustments int64 `db:"adjustments" json:"adjustments"`
	Count       int   `db:"count" json:"count"`
}

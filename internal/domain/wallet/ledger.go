package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	refundUniqueConstraint = "transactions_refund_order_uniq"
	balanceCheckConstraint = "profiles_wallet_balance_check"
	amountSignConstraint   = "transactions_amount_sign_check"
	transactionColumns     = "id, user_id, type, amount, balance_after, order_id, description, created_at"
)

// LockAccount loads the profile balance row FOR UPDATE inside tx. Every
// balance mutation must hold this lock until its ledger entry is written.
func LockAccount(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*Account, error) {
	var acc Account
	err := tx.GetContext(ctx, &acc, `
		SELECT id, role, wallet_balance FROM profiles WHERE id = $1 FOR UPDATE
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	return &acc, nil
}

// Append applies e to the locked account and writes the ledger entry in the
// same transaction. acc.Balance is updated on success.
func Append(ctx context.Context, tx *sqlx.Tx, acc *Account, e Entry) (*Transaction, error) {
	next, err := e.apply(acc.Balance)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE profiles SET wallet_balance = $1, updated_at = NOW() WHERE id = $2
	`, next, acc.UserID); err != nil {
		return nil, mapPQError(err)
	}

	var desc *string
	if e.Description != "" {
		desc = &e.Description
	}

	var t Transaction
	err = tx.GetContext(ctx, &t, `
		INSERT INTO transactions (user_id, type, amount, balance_after, order_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		acc.UserID, e.Type, e.Amount, next, e.OrderID, desc)
	if err != nil {
		return nil, mapPQError(err)
	}

	acc.Balance = next
	return &t, nil
}

// apply returns the balance after e. Credits that would overflow int64 are
// rejected as invalid amounts rather than wrapping negative.
func (e Entry) apply(balance int64) (int64, error) {
	if !e.signOK() {
		return 0, ErrInvalidAmount
	}
	if e.Amount > 0 && balance > math.MaxInt64-e.Amount {
		return 0, ErrInvalidAmount
	}
	next := balance + e.Amount
	if next < 0 {
		return 0, ErrInsufficientBalance
	}
	return next, nil
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == refundUniqueConstraint:
			return ErrAlreadyRefunded
		case pqErr.Code == "23514" && pqErr.Constraint == balanceCheckConstraint:
			return ErrInsufficientBalance
		case pqErr.Code == "23514" && pqErr.Constraint == amountSignConstraint:
			return ErrInvalidAmount
		}
	}
	return fmt.Errorf("ledger write: %w", err)
}

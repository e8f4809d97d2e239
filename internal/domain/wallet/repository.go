package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/socialboost/boost-api/internal/pkg/database"
)

// Repository defines ledger data access
type Repository interface {
	// Apply locks the profile, changes its balance and appends the entry atomically.
	Apply(ctx context.Context, e Entry) (*Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int, error)
	Search(ctx context.Context, f SearchFilter) ([]*Transaction, int, error)
	Totals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Apply(ctx context.Context, e Entry) (*Transaction, error) {
	var out *Transaction
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		acc, err := LockAccount(ctx, tx, e.UserID)
		if err != nil {
			return err
		}
		out, err = Append(ctx, tx, acc, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT wallet_balance FROM profiles WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProfileNotFound
	}
	return balance, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	items := []*Transaction{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Search(ctx context.Context, f SearchFilter) ([]*Transaction, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argN := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf("(description ILIKE $%d OR user_id::text ILIKE $%d)", argN, argN))
		args = append(args, "%"+f.Search+"%")
		argN++
	}
	if f.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", argN))
		args = append(args, f.Type)
		argN++
	}
	if f.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", argN))
		args = append(args, *f.UserID)
		argN++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM transactions WHERE "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	// Sort column comes from a fixed set, never from user input directly.
	orderCol := "created_at"
	if f.Sort == "amount" {
		orderCol = "amount"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, transactionColumns, whereClause, orderCol, dir, dir, argN, argN+1)
	args = append(args, f.Limit, f.Offset)

	items := []*Transaction{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	var t Totals
	err := r.db.GetContext(ctx, &t, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'deposit'), 0)    AS deposits,
			COALESCE(SUM(amount) FILTER (WHERE type = 'order'), 0)      AS orders,
			COALESCE(SUM(amount) FILTER (WHERE type = 'refund'), 0)     AS refunds,
			COALESCE(SUM(amount) FILTER (WHERE type = 'adjustment'), 0) AS adjustments,
			COUNT(*) AS count
		FROM transactions
	`)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

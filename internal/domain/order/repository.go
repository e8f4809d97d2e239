package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/socialboost/boost-api/internal/domain/wallet"
	"github.com/socialboost/boost-api/internal/pkg/database"
)

const selectOrders = `
	SELECT o.id, o.user_id, o.service_id, COALESCE(s.name, '') AS service_name,
		o.quantity, o.total_price, o.link_or_target, o.status, o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN services s ON s.id = o.service_id`

// Repository defines order data access. Every method that moves money runs in
// one database transaction together with its ledger entry.
type Repository interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceInput) (*Result, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Order, int, error)
	List(ctx context.Context, f ListFilter) ([]*Order, int, error)
	// UpdateStatus moves the order from one status to another. It fails with
	// ErrInvalidStatusTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (*Order, error)
	// Refund credits the order total back to its owner. With cancel set the
	// order is also moved to cancelled in the same transaction.
	Refund(ctx context.Context, id int64, cancel bool) (*Result, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type pricedService struct {
	Name       string `db:"name"`
	Price      int64  `db:"price_per_unit"`
	OrderLimit *int   `db:"order_limit"`
}

func (r *repository) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceInput) (*Result, error) {
	var res Result
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		acc, err := wallet.LockAccount(ctx, tx, userID)
		if err != nil {
			return err
		}
		if acc.Role == "blocked" {
			return ErrProfileBlocked
		}

		var svc pricedService
		err = tx.GetContext(ctx, &svc, `
			SELECT name, price_per_unit, order_limit FROM services WHERE id = $1 FOR SHARE
		`, in.ServiceID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceNotFound
		}
		if err != nil {
			return fmt.Errorf("load service: %w", err)
		}

		if svc.OrderLimit != nil && in.Quantity > *svc.OrderLimit {
			return ErrQuantityOverLimit
		}
		if int64(in.Quantity) > math.MaxInt64/svc.Price {
			return ErrInvalidInput
		}
		total := int64(in.Quantity) * svc.Price
		if acc.Balance < total {
			return ErrInsufficientBalance
		}

		var o Order
		err = tx.GetContext(ctx, &o, `
			INSERT INTO orders (user_id, service_id, quantity, total_price, link_or_target, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, user_id, service_id, quantity, total_price, link_or_target, status, created_at, updated_at
		`, userID, in.ServiceID, in.Quantity, total, in.LinkOrTarget, StatusPending)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		o.ServiceName = svc.Name

		t, err := wallet.Append(ctx, tx, acc, wallet.Entry{
			UserID:      userID,
			Type:        wallet.TypeOrder,
			Amount:      -total,
			OrderID:     &o.ID,
			Description: fmt.Sprintf("Order #%d: %s", o.ID, svc.Name),
		})
		if err != nil {
			return err
		}

		res = Result{Order: &o, Transaction: t}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, selectOrders+` WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	items := []*Order{}
	err := r.db.SelectContext(ctx, &items, selectOrders+`
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Order, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argN := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf(
			"(o.user_id::text ILIKE $%d OR s.name ILIKE $%d OR o.link_or_target ILIKE $%d OR o.status ILIKE $%d)",
			argN, argN, argN, argN))
		args = append(args, "%"+f.Search+"%")
		argN++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("o.status = $%d", argN))
		args = append(args, f.Status)
		argN++
	}
	if f.UserID != nil {
		where = append(where, fmt.Sprintf("o.user_id = $%d", argN))
		args = append(args, *f.UserID)
		argN++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o LEFT JOIN services s ON s.id = o.service_id WHERE ` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, selectOrders, whereClause, argN, argN+1)
	args = append(args, f.Limit, f.Offset)

	items := []*Order{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to Status) (*Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	rows, _ := res.RowsAffected()
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if rows == 0 {
		return nil, ErrInvalidStatusTransition
	}
	return o, nil
}

type refundTarget struct {
	UserID     uuid.UUID `db:"user_id"`
	Status     Status    `db:"status"`
	TotalPrice int64     `db:"total_price"`
}

func (r *repository) Refund(ctx context.Context, id int64, cancel bool) (*Result, error) {
	var t *wallet.Transaction
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var target refundTarget
		err := tx.GetContext(ctx, &target, `
			SELECT user_id, status, total_price FROM orders WHERE id = $1 FOR UPDATE
		`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}

		description := fmt.Sprintf("Refund for order #%d", id)
		if cancel {
			if !CanTransition(target.Status, StatusCancelled) {
				return ErrInvalidStatusTransition
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
			`, StatusCancelled, id); err != nil {
				return fmt.Errorf("cancel order: %w", err)
			}
			description = fmt.Sprintf("Refund for cancelled order #%d", id)
		}

		acc, err := wallet.LockAccount(ctx, tx, target.UserID)
		if err != nil {
			return err
		}

		t, err = wallet.Append(ctx, tx, acc, wallet.Entry{
			UserID:      target.UserID,
			Type:        wallet.TypeRefund,
			Amount:      target.TotalPrice,
			OrderID:     &id,
			Description: description,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Result{Order: o, Transaction: t}, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	var rows []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`); err != nil {
		return nil, err
	}

	counts := map[Status]int{
		StatusPending:    0,
		StatusProcessing: 0,
		StatusCompleted:  0,
		StatusCancelled:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

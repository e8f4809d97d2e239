package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const serviceColumns = `id, name, description, price_per_unit, category, tags, estimated_time, order_limit, created_at`

// Repository defines catalog data access
type Repository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id int64) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type repository struct{ db *sqlx.DB }

func NewRepository(db *sqlx.DB) Repository { return &repository{db: db} }

func (r *repository) Create(ctx context.Context, s *Service) error {
	err := r.db.GetContext(ctx, s, `
		INSERT INTO services (name, description, price_per_unit, category, tags, estimated_time, order_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+serviceColumns,
		s.Name, s.Description, s.PricePerUnit, s.Category, pq.StringArray(s.Tags), s.EstimatedTime, s.OrderLimit)
	if err != nil {
		return mapPQError(err)
	}
	return nil
}

// GetByID returns the service, or nil when absent
func (r *repository) GetByID(ctx context.Context, id int64) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]*Service, error) {
	items := []*Service{}
	err := r.db.SelectContext(ctx, &items, `SELECT `+serviceColumns+` FROM services ORDER BY created_at DESC, id DESC`)
	return items, err
}

func (r *repository) Update(ctx context.Context, s *Service) error {
	err := r.db.GetContext(ctx, s, `
		UPDATE services SET
			name = $2, description = $3, price_per_unit = $4, category = $5,
			tags = $6, estimated_time = $7, order_limit = $8
		WHERE id = $1
		RETURNING `+serviceColumns,
		s.ID, s.Name, s.Description, s.PricePerUnit, s.Category, pq.StringArray(s.Tags), s.EstimatedTime, s.OrderLimit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceNotFound
		}
		return mapPQError(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM services`)
	return n, err
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503":
			return ErrServiceInUse
		case "23514":
			return ErrInvalidPrice
		}
	}
	return fmt.Errorf("catalog repository: %w", err)
}

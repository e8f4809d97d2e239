package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const profileColumns = `p.id, u.email, p.full_name, p.avatar_url, p.role, p.wallet_balance, p.created_at, p.updated_at`

// Repository defines profile data access interface
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Profile, error)
	List(ctx context.Context, filter ListFilter) ([]*Profile, int, error)
	CountByRole(ctx context.Context) (map[Role]int, error)
}

type repository struct{ db *sqlx.DB }

func NewRepository(db *sqlx.DB) Repository { return &repository{db: db} }

// GetByID returns the profile, or nil when absent
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT `+profileColumns+`
		FROM profiles p JOIN users u ON u.id = p.id
		WHERE p.id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, f UpdateFields) (*Profile, error) {
	var role *string
	if f.Role != nil {
		s := string(*f.Role)
		role = &s
	}

	var p Profile
	err := r.db.GetContext(ctx, &p, `
		WITH p AS (
			UPDATE profiles SET
				full_name  = COALESCE($2, full_name),
				avatar_url = COALESCE($3, avatar_url),
				role       = COALESCE($4, role),
				updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+profileColumns+`
		FROM p JOIN users u ON u.id = p.id
	`, id, f.FullName, f.AvatarURL, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository update: %w", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Profile, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argN := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf("(u.email ILIKE $%d OR p.full_name ILIKE $%d)", argN, argN))
		args = append(args, "%"+f.Search+"%")
		argN++
	}
	if f.Role != "" {
		where = append(where, fmt.Sprintf("p.role = $%d", argN))
		args = append(args, f.Role)
		argN++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQ := "SELECT COUNT(*) FROM profiles p JOIN users u ON u.id = p.id WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	q := fmt.Sprintf(`
		SELECT %s
		FROM profiles p JOIN users u ON u.id = p.id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, profileColumns, whereClause, argN, argN+1)
	args = append(args, f.Limit, offset)

	items := []*Profile{}
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CountByRole(ctx context.Context) (map[Role]int, error) {
	rows := []struct {
		Role  Role `db:"role"`
		Count int  `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT role, COUNT(*) AS count FROM profiles GROUP BY role`); err != nil {
		return nil, err
	}
	out := map[Role]int{RoleUser: 0, RoleAdmin: 0, RoleBlocked: 0}
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/pkg/database/dbtest"
)

func TestRepositoryCreateWithProfile(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	u := &User{ID: uuid.New(), Email: fmt.Sprintf("u_%s@test.com", uuid.NewString()[:8]), PasswordHash: "hash"}
	if err := repo.Create(ctx, u, "Test User"); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { repo.Delete(ctx, u.ID) })

	var role string
	var balance int64
	if err := db.QueryRowxContext(ctx, `SELECT role, wallet_balance FROM profiles WHERE id = $1`, u.ID).Scan(&role, &balance); err != nil {
		t.Fatalf("profile row: %v", err)
	}
	if role != "user" || balance != 0 {
		t.Fatalf("unexpected profile role=%s balance=%d", role, balance)
	}

	dup := &User{ID: uuid.New(), Email: u.Email, PasswordHash: "hash"}
	if err := repo.Create(ctx, dup, "Dup"); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, u.Email)
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("get by email: %v %+v", err, got)
	}

	missing, err := repo.GetByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing user, got %+v %v", missing, err)
	}
}

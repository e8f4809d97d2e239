package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account's credentials. Display data lives on profile.Profile.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

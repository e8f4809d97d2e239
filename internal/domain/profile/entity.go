package profile

import (
	"time"

	"github.com/google/uuid"
)

// Role is a profile's access level.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleBlocked Role = "blocked"
)

// Profile is the public face of an account, including its wallet balance.
type Profile struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	FullName      string    `db:"full_name" json:"full_name"`
	AvatarURL     string    `db:"avatar_url" json:"avatar_url"`
	Role          Role      `db:"role" json:"role"`
	WalletBalance int64     `db:"wallet_balance" json:"wallet_balance"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) IsAdmin() bool   { return p.Role == RoleAdmin }
func (p *Profile) IsBlocked() bool { return p.Role == RoleBlocked }

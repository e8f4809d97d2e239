package admin

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/wallet"
)

// Audit actions
const (
	ActionUserUpdate    = "user.update"
	ActionUserBlock     = "user.block"
	ActionUserDelete    = "user.delete"
	ActionBalanceAdjust = "user.balance_adjust"
	ActionOrderStatus   = "order.status"
	ActionOrderRefund   = "order.refund"
)

// AuditLog represents an admin action log entry
type AuditLog struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	AdminID    uuid.NullUUID   `db:"admin_id" json:"admin_id"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   string          `db:"entity_id" json:"entity_id"`
	Details    json.RawMessage `db:"details" json:"details,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ip_address"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// AuditFilter for filtering audit logs
type AuditFilter struct {
	AdminID    *uuid.UUID
	Action     string
	EntityType string
	Limit      int
	Offset     int
}

// Summary is the control center overview.
type Summary struct {
	Users          int                  `json:"users"`
	UsersByRole    map[profile.Role]int `json:"users_by_role"`
	Services       int                  `json:"services"`
	Orders         int                  `json:"orders"`
	OrdersByStatus map[order.Status]int `json:"orders_by_status"`
	Ledger         *wallet.Totals       `json:"ledger"`
}

// UserDetail is one user with their recent orders and ledger entries.
type UserDetail struct {
	Profile      *profile.Profile      `json:"profile"`
	Orders       []*order.Order        `json:"orders"`
	Transactions []*wallet.Transaction `json:"transactions"`
}

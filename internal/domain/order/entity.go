package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/wallet"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// Staying in the same status is not a transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a purchase of a catalog service by a user.
type Order struct {
	ID           int64     `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	ServiceID    int64     `db:"service_id" json:"service_id"`
	ServiceName  string    `db:"service_name" json:"service_name"`
	Quantity     int       `db:"quantity" json:"quantity"`
	TotalPrice   int64     `db:"total_price" json:"total_price"`
	LinkOrTarget string    `db:"link_or_target" json:"link_or_target"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PlaceInput is what a user submits to buy a service. The total is always
// computed from the stored unit price.
type PlaceInput struct {
	ServiceID    int64
	Quantity     int
	LinkOrTarget string
}

// Result pairs an order with the ledger entry written for it.
type Result struct {
	Order       *Order              `json:"order"`
	Transaction *wallet.Transaction `json:"transaction"`
}

// ListFilter drives the admin order listing.
type ListFilter struct {
	Search string // user id, service name or target
	Status Status
	UserID *uuid.UUID
	Limit  int
	Offset int
}

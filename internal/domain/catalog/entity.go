package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Service is a purchasable boosting service.
type Service struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	PricePerUnit  int64          `db:"price_per_unit" json:"price_per_unit"`
	Category      string         `db:"category" json:"category"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	EstimatedTime *string        `db:"estimated_time" json:"estimated_time,omitempty"`
	OrderLimit    *int           `db:"order_limit" json:"order_limit,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

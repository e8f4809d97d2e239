package catalog

import "strings"

// ServiceRequest is the admin create/replace payload.
type ServiceRequest struct {
	Name          string   `json:"name" validate:"required,notblank,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	PricePerUnit  int64    `json:"price_per_unit" validate:"gt=0"`
	Category      string   `json:"category" validate:"max=100"`
	Tags          []string `json:"tags" validate:"max=20,dive,notblank,max=50"`
	EstimatedTime *string  `json:"estimated_time" validate:"omitempty,max=100"`
	OrderLimit    *int     `json:"order_limit" validate:"omitempty,gt=0"`
}

func (r *ServiceRequest) toService() *Service {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, strings.TrimSpace(t))
	}
	return &Service{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		PricePerUnit:  r.PricePerUnit,
		Category:      strings.TrimSpace(r.Category),
		Tags:          tags,
		EstimatedTime: r.EstimatedTime,
		OrderLimit:    r.OrderLimit,
	}
}

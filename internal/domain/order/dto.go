package order

// PlaceRequest is the body of POST /orders. Any client-sent total is ignored.
type PlaceRequest struct {
	ServiceID    int64  `json:"service_id" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	LinkOrTarget string `json:"link_or_target" validate:"required,notblank,max=2000"`
}

// StatusRequest is the body of the admin status change.
type StatusRequest struct {
	Status Status `json:"status" validate:"required,order_status"`
}

package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidPrice    = errors.New("price per unit must be greater than zero")
	ErrServiceInUse    = errors.New("service has orders and cannot be deleted")
)

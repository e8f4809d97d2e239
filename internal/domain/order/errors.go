package order

import (
	"errors"

	"github.com/socialboost/boost-api/internal/domain/wallet"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrOrderNotFound           = errors.New("order not found")
	ErrServiceNotFound         = errors.New("service not found")
	ErrProfileBlocked          = errors.New("profile is blocked")
	ErrQuantityOverLimit       = errors.New("quantity exceeds the service order limit")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// Ledger errors surface unchanged so callers can match either package.
	ErrInsufficientBalance = wallet.ErrInsufficientBalance
	ErrProfileNotFound     = wallet.ErrProfileNotFound
	ErrAlreadyRefunded     = wallet.ErrAlreadyRefunded
)

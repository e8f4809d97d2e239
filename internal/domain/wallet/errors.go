package wallet

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrAlreadyRefunded     = errors.New("order already refunded")
	ErrDescriptionRequired = errors.New("description is required")
)

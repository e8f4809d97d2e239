package auth

import (
	"errors"

	"github.com/socialboost/boost-api/internal/domain/user"
)

var (
	ErrEmailAlreadyExists   = user.ErrEmailAlreadyExists
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrUserNotFound         = errors.New("user not found")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
	ErrProfileBlocked       = errors.New("account is blocked")
)

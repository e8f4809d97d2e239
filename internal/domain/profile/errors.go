package profile

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrCannotModifySelf = errors.New("admins cannot change their own role or delete themselves")
)

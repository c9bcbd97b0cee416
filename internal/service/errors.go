package service

import "errors"

// Outcomes the HTTP layer maps to specific 4xx responses. Anything else
// returned by a service is an internal failure.
var (
	ErrDuplicateEmail  = errors.New("email is already in use")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
)

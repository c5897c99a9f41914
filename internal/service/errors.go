// Package service provides business logic for the application.
package service

import (
	"errors"

	"github.com/tradepost/tradepost/internal/auth"
)

// Service errors. Handlers map these to HTTP responses; the messages
// for credential and token failures are deliberately generic so callers
// cannot tell which check failed.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTitleTaken         = errors.New("title already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrForbidden          = errors.New("forbidden")

	// ErrInvalidToken covers bad signatures, expiry and type confusion.
	ErrInvalidToken = auth.ErrInvalidToken
)

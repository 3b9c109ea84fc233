package services

import (
	"errors"
	"fmt"

	"storefront/pkg/credential"
)

// Error kinds surfaced to callers. Every error returned by the services
// for a business rule matches exactly one of them with errors.Is.
var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidInput      = errors.New("invalid input")
)

var (
	ErrUserAlreadyExists = fmt.Errorf("user %w", ErrAlreadyExists)
	ErrEmailNotFound     = fmt.Errorf("email %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user does not exist: %w", ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("product %w", ErrNotFound)
	ErrWrongPassword     = fmt.Errorf("wrong password: %w", ErrInvalidCredential)
	ErrPasswordTooLong   = fmt.Errorf("password longer than %d bytes: %w", credential.MaxPasswordBytes, ErrInvalidInput)
)

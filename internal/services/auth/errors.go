// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCode        = errors.New("confirmation code is incorrect")
	ErrExpiredCode        = errors.New("confirmation code is expired")
	ErrAlreadyConfirmed   = errors.New("email already confirmed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotificationFailed = errors.New("failed to send notification")
)

// ValidationError reports the first input field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConflictError reports a login or email that is already taken.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " should be unique"
}

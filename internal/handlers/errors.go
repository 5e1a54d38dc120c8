// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"codeberg.org/oliverandrich/go-accounts/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// fieldMessage maps a business error to the field and message reported in a 400.
type fieldMessage struct {
	field   string
	message string
}

var confirmErrors = map[error]fieldMessage{
	auth.ErrInvalidCode:      {"code", "Confirmation code is incorrect"},
	auth.ErrAlreadyConfirmed: {"code", "Email already confirmed"},
	auth.ErrExpiredCode:      {"code", "Confirmation code is expired"},
}

var resendErrors = map[error]fieldMessage{
	auth.ErrNotFound:         {"email", "User with this email doesn't exist"},
	auth.ErrAlreadyConfirmed: {"email", "Email is already confirmed"},
}

// handleError turns a service error into a response. Errors it does not
// recognize are returned for echo's error handler to answer with a 500.
func handleError(c echo.Context, err error, known map[error]fieldMessage) error {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		return BadRequest(c, validationErr.Field, validationErr.Message)
	}

	var conflictErr *auth.ConflictError
	if errors.As(err, &conflictErr) {
		return BadRequest(c, conflictErr.Field, conflictErr.Error())
	}

	for sentinel, fm := range known {
		if errors.Is(err, sentinel) {
			return BadRequest(c, fm.field, fm.message)
		}
	}

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return c.NoContent(http.StatusUnauthorized)
	case errors.Is(err, auth.ErrNotificationFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "failed to send confirmation email").SetInternal(err)
	}

	return err
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorMessage describes one rejected input field.
type ErrorMessage struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// ErrorsResponse is the body of every 400 response.
type ErrorsResponse struct {
	ErrorsMessages []ErrorMessage `json:"errorsMessages"`
}

// BadRequest writes a 400 response reporting a single field.
func BadRequest(c echo.Context, field, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorsResponse{
		ErrorsMessages: []ErrorMessage{{Message: message, Field: field}},
	})
}

// bind decodes the JSON body into dst, answering malformed bodies with a 400.
func bind(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, BadRequest(c, "body", "invalid request body")
	}
	return true, nil
}

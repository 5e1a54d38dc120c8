// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware provides echo middleware for authentication, locale
// detection, request logging and path normalization.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/go-accounts/internal/auth"
	"github.com/labstack/echo/v4"
)

// TokenVerifier resolves a bearer token to an account ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireBearer rejects requests without a valid bearer token with a bare
// 401 and stores the account ID in the request context otherwise.
func RequireBearer(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.NoContent(http.StatusUnauthorized)
			}

			accountID, err := verifier.Verify(raw)
			if err != nil {
				slog.DebugContext(c.Request().Context(), "bearer_rejected", "error", err)
				return c.NoContent(http.StatusUnauthorized)
			}

			ctx := auth.WithAccountID(c.Request().Context(), accountID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"codeberg.org/oliverandrich/go-accounts/internal/ctxkeys"
)

// WithAccountID returns a copy of ctx carrying the authenticated account ID.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, ctxkeys.AccountID{}, accountID)
}

// AccountID returns the authenticated account ID from the context, or "" if not authenticated.
func AccountID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxkeys.AccountID{}).(string); ok {
		return id
	}
	return ""
}

// IsAuthenticated returns true if the context has an authenticated account.
func IsAuthenticated(ctx context.Context) bool {
	return AccountID(ctx) != ""
}

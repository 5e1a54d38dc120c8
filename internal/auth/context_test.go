// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/go-accounts/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestAccountID(t *testing.T) {
	ctx := auth.WithAccountID(context.Background(), "01HZACCOUNT")

	assert.Equal(t, "01HZACCOUNT", auth.AccountID(ctx))
	assert.True(t, auth.IsAuthenticated(ctx))
}

func TestAccountID_Missing(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, auth.AccountID(ctx))
	assert.False(t, auth.IsAuthenticated(ctx))
}

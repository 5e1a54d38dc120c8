// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/go-accounts/internal/handlers"
	"codeberg.org/oliverandrich/go-accounts/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error {
	return errors.New("connection refused")
}

func TestNew(t *testing.T) {
	db, _ := testutil.NewTestDB(t)

	h := handlers.New(db)

	assert.NotNil(t, h)
}

func TestHealth(t *testing.T) {
	h := handlers.New(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Health(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_WithDatabase(t *testing.T) {
	db, _ := testutil.NewTestDB(t)
	h := handlers.New(db)

	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := handlers.New(failingPinger{})

	c, rec := testutil.NewEchoContext(echo.New(), http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

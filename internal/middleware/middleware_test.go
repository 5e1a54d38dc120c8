// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/go-accounts/internal/auth"
	"codeberg.org/oliverandrich/go-accounts/internal/i18n"
	"codeberg.org/oliverandrich/go-accounts/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

func accountEcho(verifier middleware.TokenVerifier) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, auth.AccountID(c.Request().Context()))
	}, middleware.RequireBearer(verifier))
	return e
}

func TestRequireBearer(t *testing.T) {
	e := accountEcho(stubVerifier{"good": "01HZACCOUNT"})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer good", http.StatusOK, "01HZACCOUNT"},
		{"lowercase scheme", "bearer good", http.StatusOK, "01HZACCOUNT"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestLocale(t *testing.T) {
	e := echo.New()
	e.Use(middleware.Locale())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, i18n.GetLocale(c.Request().Context()))
	})

	tests := []struct {
		acceptLanguage string
		expected       string
	}{
		{"de-DE,de;q=0.9", "de"},
		{"en-US", "en"},
		{"fr", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Language", tt.acceptLanguage)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Body.String())
		})
	}
}

func TestStripTrailingSlash(t *testing.T) {
	e := echo.New()
	e.Pre(middleware.StripTrailingSlash())
	e.POST("/auth/login", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().URL.RequestURI())
	})
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "root")
	})

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/auth/login/", "/auth/login"},
		{http.MethodPost, "/auth/login/?x=1", "/auth/login?x=1"},
		{http.MethodPost, "/auth/login", "/auth/login"},
		{http.MethodGet, "/", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Contains(t, buf.String(), "level=INFO msg=request")
	assert.Contains(t, buf.String(), "uri=/ok")
	assert.Contains(t, buf.String(), "status=204")
	assert.Contains(t, buf.String(), "request_id=")

	buf.Reset()
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
	assert.Contains(t, buf.String(), "status=500")
}

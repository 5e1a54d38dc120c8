// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/config"
	"codeberg.org/oliverandrich/go-accounts/internal/services/notify"
	"codeberg.org/oliverandrich/go-accounts/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	e      *echo.Echo
	svc    *services
	outbox *notify.Memory
	clock  *testutil.Clock
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        8080,
			BaseURL:     "http://localhost:8080",
			MaxBodySize: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTL:        time.Hour,
			ConfirmationTTL: time.Hour,
			BcryptCost:      bcrypt.MinCost,
			ConfirmURL:      "http://localhost:8080/confirm-email",
		},
		Mail: config.MailConfig{Transport: config.TransportConsole},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, repo := testutil.NewTestDB(t)
	ts := &testServer{
		outbox: notify.NewMemory(),
		clock:  testutil.NewClock(time.Now().UTC().Truncate(time.Second)),
	}

	cfg := testConfig()
	svc, err := newServices(cfg, repo, db, ts.outbox, ts.clock.Now)
	require.NoError(t, err)
	ts.svc = svc
	ts.e = newEcho(cfg, svc)

	return ts
}

func (ts *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = testutil.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestAccountLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/auth/registration",
		`{"login":"bob","email":"bob@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	msg, ok := ts.outbox.Last("bob@example.com")
	require.True(t, ok)
	confirmation, ok := notify.ExtractCode(msg.Body)
	require.True(t, ok)

	// Unconfirmed accounts cannot log in yet
	rec = ts.do(http.MethodPost, "/auth/login", `{"loginOrEmail":"bob","password":"secret123"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/registration-confirmation", `{"code":"`+confirmation+`"}`, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/login", `{"loginOrEmail":"bob@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	accountID, err := ts.svc.issuer.Verify(login.AccessToken)
	require.NoError(t, err)

	rec = ts.do(http.MethodGet, "/auth/me", "", map[string]string{
		echo.HeaderAuthorization: "Bearer " + login.AccessToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"bob@example.com","login":"bob","userId":"`+accountID+`"}`, rec.Body.String())
}

func TestMe_RequiresBearer(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong scheme", map[string]string{echo.HeaderAuthorization: "Basic Ym9iOnNlY3JldA=="}},
		{"garbage token", map[string]string{echo.HeaderAuthorization: "Bearer not-a-token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodGet, "/auth/me", "", tt.headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, rec.Body.String())
		})
	}
}

func TestMe_ExpiredToken(t *testing.T) {
	ts := newTestServer(t)
	token, err := ts.svc.issuer.Issue("01HZEXPIRED")
	require.NoError(t, err)

	ts.clock.Advance(2 * time.Hour)
	rec := ts.do(http.MethodGet, "/auth/me", "", map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegistration_TrailingSlash(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/auth/registration/",
		`{"login":"bob","email":"bob@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegistration_GermanMail(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/auth/registration",
		`{"login":"bob","email":"bob@example.com","password":"secret123"}`,
		map[string]string{"Accept-Language": "de-DE,de;q=0.9"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	msg, ok := ts.outbox.Last("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "Bestätigen Sie Ihre Registrierung", msg.Subject)
}

func TestRegistration_MailFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.outbox.Fail(true)

	rec := ts.do(http.MethodPost, "/auth/registration",
		`{"login":"bob","email":"bob@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRegistration_BodyLimit(t *testing.T) {
	ts := newTestServer(t)
	body := `{"login":"` + strings.Repeat("a", 2<<20) + `"}`

	rec := ts.do(http.MethodPost, "/auth/registration", body, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, "/auth/registration",
		`{"login":"bob","email":"bob@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `accounts_events_total{event="registered"} 1`)
	assert.Contains(t, body, `accounts_events_total{event="logged_in"} 0`)
	assert.Contains(t, body, "go_goroutines")
}

func TestSigningSecret(t *testing.T) {
	secret, err := signingSecret("configured")
	require.NoError(t, err)
	assert.Equal(t, []byte("configured"), secret)

	first, err := signingSecret("")
	require.NoError(t, err)
	second, err := signingSecret("")
	require.NoError(t, err)
	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}

func TestBodyLimit(t *testing.T) {
	assert.Equal(t, "1M", bodyLimit(0))
	assert.Equal(t, "4M", bodyLimit(4))
}

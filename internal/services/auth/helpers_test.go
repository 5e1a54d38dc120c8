// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/repository"
	"codeberg.org/oliverandrich/go-accounts/internal/services/auth"
	"codeberg.org/oliverandrich/go-accounts/internal/services/code"
	"codeberg.org/oliverandrich/go-accounts/internal/services/notify"
	"codeberg.org/oliverandrich/go-accounts/internal/services/password"
	"codeberg.org/oliverandrich/go-accounts/internal/services/token"
	"codeberg.org/oliverandrich/go-accounts/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const confirmURL = "https://somesite.com/confirm-email"

// eventLog records observer events.
type eventLog struct {
	events []auth.Event
	mu     sync.Mutex
}

func (l *eventLog) observe(_ context.Context, event auth.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.events))
	for i, e := range l.events {
		names[i] = e.Name
	}
	return names
}

func (l *eventLog) last() auth.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}

type fixture struct {
	dir          *repository.Memory
	outbox       *notify.Memory
	clock        *testutil.Clock
	issuer       *token.Issuer
	events       *eventLog
	hasher       *password.Hasher
	registration *auth.RegistrationService
	session      *auth.SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		dir:    repository.NewMemory(),
		outbox: notify.NewMemory(),
		clock:  testutil.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		events: &eventLog{},
	}

	issuer, err := token.NewIssuer([]byte("test-secret"), time.Hour, f.clock.Now)
	require.NoError(t, err)
	f.issuer = issuer

	f.hasher = password.NewHasher(bcrypt.MinCost)
	f.registration = f.newRegistration(f.dir)
	f.session = auth.NewSessionService(f.dir, f.hasher, issuer, f.events.observe)

	return f
}

// newRegistration builds a registration service over dir that shares the
// fixture's outbox, clock and event log.
func (f *fixture) newRegistration(dir auth.Directory) *auth.RegistrationService {
	return auth.NewRegistrationService(dir, f.hasher, code.NewGenerator(), f.outbox, auth.RegistrationOptions{
		ConfirmURL:      confirmURL,
		ConfirmationTTL: time.Hour,
		Now:             f.clock.Now,
		Observer:        f.events.observe,
	})
}

// register creates an account and returns the code from its confirmation mail.
func (f *fixture) register(t *testing.T, login, email, pass string) string {
	t.Helper()
	_, err := f.registration.Register(context.Background(), auth.RegisterParams{Login: login, Email: email, Password: pass})
	require.NoError(t, err)
	return f.mailedCode(t, email)
}

func (f *fixture) mailedCode(t *testing.T, email string) string {
	t.Helper()
	msg, ok := f.outbox.Last(email)
	require.True(t, ok, "no mail sent to %s", email)
	value, ok := notify.ExtractCode(msg.Body)
	require.True(t, ok, "no code in mail body")
	return value
}

// registerConfirmed creates and confirms an account.
func (f *fixture) registerConfirmed(t *testing.T, login, email, pass string) {
	t.Helper()
	value := f.register(t, login, email, pass)
	require.NoError(t, f.registration.Confirm(context.Background(), value))
}

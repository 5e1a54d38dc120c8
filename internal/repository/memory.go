// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"sync"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/models"
)

// Memory is an in-process account directory with the same contract as
// Repository. Uniqueness checks and inserts happen under one lock.
type Memory struct {
	accounts map[string]*models.Account
	mu       sync.RWMutex
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]*models.Account)}
}

// FindByID retrieves an account by its ID.
func (m *Memory) FindByID(_ context.Context, id string) (*models.Account, error) {
	return m.find(func(a *models.Account) bool { return a.ID == id })
}

// FindByLogin retrieves an account by its login.
func (m *Memory) FindByLogin(_ context.Context, login string) (*models.Account, error) {
	return m.find(func(a *models.Account) bool { return a.Login == login })
}

// FindByEmail retrieves an account by its email address.
func (m *Memory) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	return m.find(func(a *models.Account) bool { return a.Email == email })
}

// FindByLoginOrEmail retrieves the account whose login or email equals value,
// preferring a login match.
func (m *Memory) FindByLoginOrEmail(ctx context.Context, value string) (*models.Account, error) {
	if account, err := m.FindByLogin(ctx, value); err == nil {
		return account, nil
	}
	return m.FindByEmail(ctx, value)
}

// FindByConfirmationCode retrieves the account holding the given confirmation code.
func (m *Memory) FindByConfirmationCode(_ context.Context, code string) (*models.Account, error) {
	return m.find(func(a *models.Account) bool { return a.Code != nil && *a.Code == code })
}

// Create inserts a new account, failing with *UniqueViolation when the login
// or email is taken. Login is checked first.
func (m *Memory) Create(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Login == account.Login {
			return &UniqueViolation{Field: "login"}
		}
	}
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return &UniqueViolation{Field: "email"}
		}
	}

	m.accounts[account.ID] = clone(account)
	return nil
}

// ConfirmCode marks the account confirmed and clears its code, provided it is
// still unconfirmed and still holds code. Otherwise it returns ErrStale.
func (m *Memory) ConfirmCode(_ context.Context, id, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok || account.IsConfirmed || account.Code == nil || *account.Code != code {
		return ErrStale
	}
	account.Confirm()
	return nil
}

// RotateCode replaces the outstanding code of an unconfirmed account.
// Confirmed or missing accounts yield ErrStale.
func (m *Memory) RotateCode(_ context.Context, id, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok || account.IsConfirmed {
		return ErrStale
	}
	account.Pending(code, expiresAt)
	return nil
}

// Len returns the number of stored accounts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

func (m *Memory) find(match func(*models.Account) bool) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts {
		if match(account) {
			return clone(account), nil
		}
	}
	return nil, ErrNotFound
}

// clone copies an account so callers never share pointers with the store.
func clone(a *models.Account) *models.Account {
	c := *a
	if a.Code != nil {
		code := *a.Code
		c.Code = &code
	}
	if a.ExpiresAt != nil {
		expiresAt := *a.ExpiresAt
		c.ExpiresAt = &expiresAt
	}
	return &c
}

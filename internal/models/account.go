// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Account is a registered user together with its email confirmation state.
type Account struct { //nolint:govet // fieldalignment: readability over optimization
	ID           string    `db:"id" json:"id"`
	Login        string    `db:"login" json:"login"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	Confirmation
}

// Confirmation tracks whether the account owner has proven control of the email.
// A confirmed account carries neither code nor expiry.
type Confirmation struct {
	IsConfirmed bool       `db:"is_confirmed" json:"is_confirmed"`
	Code        *string    `db:"confirmation_code" json:"-"`
	ExpiresAt   *time.Time `db:"confirmation_expires_at" json:"-"`
}

// Pending replaces any outstanding code with a new one valid until expiresAt.
// It leaves IsConfirmed untouched; confirmation is never undone.
func (c *Confirmation) Pending(code string, expiresAt time.Time) {
	c.Code = &code
	c.ExpiresAt = &expiresAt
}

// Confirm marks the email as confirmed and clears the code.
func (c *Confirmation) Confirm() {
	c.IsConfirmed = true
	c.Code = nil
	c.ExpiresAt = nil
}

// Expired reports whether the outstanding code is no longer valid at now.
// A missing expiry counts as expired.
func (c *Confirmation) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return now.After(*c.ExpiresAt)
}

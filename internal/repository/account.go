// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/models"
)

const accountColumns = `id, login, email, password_hash, created_at,
	is_confirmed, confirmation_code, confirmation_expires_at`

// FindByID retrieves an account by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
}

// FindByLogin retrieves an account by its login.
func (r *Repository) FindByLogin(ctx context.Context, login string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE login = ?`, login)
}

// FindByEmail retrieves an account by its email address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

// FindByLoginOrEmail retrieves the account whose login or email equals value.
// A login match wins over an email match on a different account.
func (r *Repository) FindByLoginOrEmail(ctx context.Context, value string) (*models.Account, error) {
	return r.getAccount(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE login = ? OR email = ?
		 ORDER BY CASE WHEN login = ? THEN 0 ELSE 1 END
		 LIMIT 1`,
		value, value, value)
}

// FindByConfirmationCode retrieves the account holding the given confirmation code.
func (r *Repository) FindByConfirmationCode(ctx context.Context, code string) (*models.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE confirmation_code = ?`, code)
}

// Create inserts a new account. Login and email uniqueness is enforced by the
// table constraints and reported as *UniqueViolation.
func (r *Repository) Create(ctx context.Context, account *models.Account) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO accounts (id, login, email, password_hash, created_at,
			is_confirmed, confirmation_code, confirmation_expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		account.ID, account.Login, account.Email, account.PasswordHash, account.CreatedAt,
		account.IsConfirmed, account.Code, account.ExpiresAt)
	return wrapError(err)
}

// ConfirmCode marks the account confirmed and clears its code, provided it is
// still unconfirmed and still holds code. Otherwise it returns ErrStale.
func (r *Repository) ConfirmCode(ctx context.Context, id, code string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE accounts SET is_confirmed = ?, confirmation_code = NULL, confirmation_expires_at = NULL
		 WHERE id = ? AND confirmation_code = ? AND is_confirmed = ?`),
		true, id, code, false)
	return checkAffected(res, err)
}

// RotateCode replaces the outstanding code of an unconfirmed account.
// Confirmed or missing accounts yield ErrStale.
func (r *Repository) RotateCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE accounts SET confirmation_code = ?, confirmation_expires_at = ?
		 WHERE id = ? AND is_confirmed = ?`),
		code, expiresAt, id, false)
	return checkAffected(res, err)
}

// checkAffected turns an update that matched no row into ErrStale.
func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStale
	}
	return nil
}

func (r *Repository) getAccount(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	if err := r.db.GetContext(ctx, &account, r.db.Rebind(query), args...); err != nil {
		return nil, wrapError(err)
	}
	return &account, nil
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// ErrStale is returned when a conditional update finds the record no longer
// in the expected state.
var ErrStale = errors.New("record changed concurrently")

// UniqueViolation is returned when a write collides with an existing login or email.
type UniqueViolation struct {
	Field string
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// Repository wraps sqlx for database operations
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying sqlx DB for direct access
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// wrapError converts driver errors to repository errors
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &UniqueViolation{Field: uniqueField(pgErr.ConstraintName)}
	}

	// modernc.org/sqlite: "UNIQUE constraint failed: accounts.login"
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return &UniqueViolation{Field: uniqueField(msg)}
	}

	return err
}

// uniqueField maps a constraint name or driver message to the offending field.
func uniqueField(s string) string {
	switch {
	case strings.Contains(s, "login"):
		return "login"
	case strings.Contains(s, "email"):
		return "email"
	default:
		return "unknown"
	}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// migrationSource returns the goose dialect and embedded directory for a backend.
func migrationSource(dialect Dialect) (string, string) {
	if dialect == DialectPostgres {
		return "postgres", "migrations/postgres"
	}
	return "sqlite3", "migrations/sqlite"
}

// RunMigrations runs all pending goose migrations.
func RunMigrations(db *sql.DB, dialect Dialect) error {
	gooseDialect, dir := migrationSource(dialect)
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}

	return goose.Up(db, dir)
}

// MigrateDown rolls back the last migration.
func MigrateDown(db *sql.DB, dialect Dialect) error {
	gooseDialect, dir := migrationSource(dialect)
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}

	return goose.Down(db, dir)
}

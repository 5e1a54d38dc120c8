// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/models"
)

// Directory stores accounts. Lookups return repository.ErrNotFound when
// nothing matches; Create returns *repository.UniqueViolation when the login
// or email is taken. ConfirmCode and RotateCode only touch unconfirmed
// accounts and return repository.ErrStale otherwise.
type Directory interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByLogin(ctx context.Context, login string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByLoginOrEmail(ctx context.Context, value string) (*models.Account, error)
	FindByConfirmationCode(ctx context.Context, code string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	ConfirmCode(ctx context.Context, id, code string) error
	RotateCode(ctx context.Context, id, code string, expiresAt time.Time) error
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	VerifyDummy(plaintext string)
}

// CodeGenerator produces confirmation codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// TokenIssuer signs session tokens for an account.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

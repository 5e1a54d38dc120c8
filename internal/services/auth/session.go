// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/go-accounts/internal/models"
	"codeberg.org/oliverandrich/go-accounts/internal/repository"
	"github.com/go-playground/validator/v10"
)

// SessionService authenticates confirmed accounts and issues session tokens.
type SessionService struct {
	dir      Directory
	hasher   Hasher
	issuer   TokenIssuer
	validate *validator.Validate
	observer Observer
}

func NewSessionService(dir Directory, hasher Hasher, issuer TokenIssuer, observer Observer) *SessionService {
	return &SessionService{
		dir:      dir,
		hasher:   hasher,
		issuer:   issuer,
		validate: newValidator(),
		observer: observer,
	}
}

// Login returns a session token for a confirmed account matching
// loginOrEmail and password. Unknown accounts, unconfirmed accounts and
// wrong passwords all yield ErrUnauthorized.
func (s *SessionService) Login(ctx context.Context, loginOrEmail, password string) (string, error) {
	input := loginInput{
		LoginOrEmail: strings.TrimSpace(loginOrEmail),
		Password:     strings.TrimSpace(password),
	}
	if err := validateInput(s.validate, input, loginMessages); err != nil {
		return "", err
	}

	account, err := s.dir.FindByLoginOrEmail(ctx, input.LoginOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Keep timing equal to a real password check
			s.hasher.VerifyDummy(input.Password)
			slog.WarnContext(ctx, "login_failed", "login_or_email", input.LoginOrEmail, "reason", "account_not_found")
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Verify(input.Password, account.PasswordHash) {
		slog.WarnContext(ctx, "login_failed", "account_id", account.ID, "reason", "invalid_password")
		return "", ErrUnauthorized
	}
	if !account.IsConfirmed {
		slog.WarnContext(ctx, "login_failed", "account_id", account.ID, "reason", "unconfirmed")
		return "", ErrUnauthorized
	}

	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "login_success", "account_id", account.ID)
	s.observer.notify(ctx, Event{Name: EventLoggedIn, AccountID: account.ID, Payload: token})

	return token, nil
}

// Me returns the account behind a verified token.
func (s *SessionService) Me(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.dir.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements account registration, email confirmation and login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/models"
	"codeberg.org/oliverandrich/go-accounts/internal/repository"
	"codeberg.org/oliverandrich/go-accounts/internal/services/notify"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

// DefaultConfirmationTTL is how long a confirmation code stays valid.
const DefaultConfirmationTTL = time.Hour

// DefaultConfirmURL is the link target used when none is configured.
const DefaultConfirmURL = "https://somesite.com/confirm-email"

// RegistrationOptions configures a RegistrationService.
type RegistrationOptions struct {
	ConfirmURL      string
	ConfirmationTTL time.Duration
	Now             func() time.Time
	Observer        Observer
}

// RegistrationService registers accounts and confirms their email addresses.
type RegistrationService struct {
	dir        Directory
	hasher     Hasher
	codes      CodeGenerator
	sender     notify.Sender
	validate   *validator.Validate
	now        func() time.Time
	observer   Observer
	confirmURL string
	ttl        time.Duration
}

func NewRegistrationService(dir Directory, hasher Hasher, codes CodeGenerator, sender notify.Sender, opts RegistrationOptions) *RegistrationService {
	if opts.ConfirmURL == "" {
		opts.ConfirmURL = DefaultConfirmURL
	}
	if opts.ConfirmationTTL <= 0 {
		opts.ConfirmationTTL = DefaultConfirmationTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RegistrationService{
		dir:        dir,
		hasher:     hasher,
		codes:      codes,
		sender:     sender,
		validate:   newValidator(),
		now:        opts.Now,
		observer:   opts.Observer,
		confirmURL: opts.ConfirmURL,
		ttl:        opts.ConfirmationTTL,
	}
}

// RegisterParams holds the parameters for registration.
type RegisterParams struct {
	Login    string
	Email    string
	Password string
}

// Register creates an unconfirmed account and mails its confirmation code.
// When the mail cannot be sent the account is kept and the error wraps
// ErrNotificationFailed.
func (s *RegistrationService) Register(ctx context.Context, params RegisterParams) (*models.Account, error) {
	input := registrationInput{
		Login:    strings.TrimSpace(params.Login),
		Password: strings.TrimSpace(params.Password),
		Email:    strings.TrimSpace(params.Email),
	}
	if err := validateInput(s.validate, input, registrationMessages); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, input.Login, input.Email); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &models.Account{
		ID:           ulid.Make().String(),
		Login:        input.Login,
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	account.Pending(code, now.Add(s.ttl))

	if err := s.dir.Create(ctx, account); err != nil {
		var violation *repository.UniqueViolation
		if errors.As(err, &violation) {
			return nil, &ConflictError{Field: violation.Field}
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.InfoContext(ctx, "register_success", "account_id", account.ID, "login", account.Login, "email", account.Email)
	s.observer.notify(ctx, Event{Name: EventRegistered, AccountID: account.ID, Payload: code})

	if err := s.sendConfirmation(ctx, account, code); err != nil {
		return account, err
	}

	return account, nil
}

// Confirm marks the account holding code as confirmed and invalidates the code.
func (s *RegistrationService) Confirm(ctx context.Context, code string) error {
	input := confirmInput{Code: strings.TrimSpace(code)}
	if err := validateInput(s.validate, input, confirmMessages); err != nil {
		return err
	}

	account, err := s.dir.FindByConfirmationCode(ctx, input.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.WarnContext(ctx, "confirm_failed", "reason", "unknown_code")
			return ErrInvalidCode
		}
		return fmt.Errorf("failed to find account by code: %w", err)
	}

	if account.IsConfirmed {
		slog.WarnContext(ctx, "confirm_failed", "account_id", account.ID, "reason", "already_confirmed")
		return ErrAlreadyConfirmed
	}
	if account.Expired(s.now()) {
		slog.WarnContext(ctx, "confirm_failed", "account_id", account.ID, "reason", "expired")
		return ErrExpiredCode
	}

	if err := s.dir.ConfirmCode(ctx, account.ID, input.Code); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return s.staleConfirmation(ctx, account.ID)
		}
		return fmt.Errorf("failed to confirm account: %w", err)
	}

	slog.InfoContext(ctx, "confirm_success", "account_id", account.ID)
	s.observer.notify(ctx, Event{Name: EventConfirmed, AccountID: account.ID})

	return nil
}

// Resend replaces the outstanding code of an unconfirmed account and mails
// the new one. The previous code stops working immediately.
func (s *RegistrationService) Resend(ctx context.Context, email string) error {
	input := resendInput{Email: strings.TrimSpace(email)}
	if err := validateInput(s.validate, input, resendMessages); err != nil {
		return err
	}

	account, err := s.dir.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find account by email: %w", err)
	}
	if account.IsConfirmed {
		return ErrAlreadyConfirmed
	}

	code, err := s.codes.Generate()
	if err != nil {
		return err
	}
	if err := s.dir.RotateCode(ctx, account.ID, code, s.now().UTC().Add(s.ttl)); err != nil {
		if errors.Is(err, repository.ErrStale) {
			slog.WarnContext(ctx, "resend_failed", "account_id", account.ID, "reason", "confirmed_concurrently")
			return ErrAlreadyConfirmed
		}
		return fmt.Errorf("failed to rotate code: %w", err)
	}

	slog.InfoContext(ctx, "resend_success", "account_id", account.ID)
	s.observer.notify(ctx, Event{Name: EventCodeResent, AccountID: account.ID, Payload: code})

	return s.sendConfirmation(ctx, account, code)
}

// staleConfirmation explains a confirmation that lost a race: either another
// request confirmed the account first or the code was rotated meanwhile.
func (s *RegistrationService) staleConfirmation(ctx context.Context, id string) error {
	account, err := s.dir.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reload account: %w", err)
	}
	if account.IsConfirmed {
		slog.WarnContext(ctx, "confirm_failed", "account_id", id, "reason", "already_confirmed")
		return ErrAlreadyConfirmed
	}
	slog.WarnContext(ctx, "confirm_failed", "account_id", id, "reason", "code_rotated")
	return ErrInvalidCode
}

// ensureAvailable checks login before email so a request colliding on both
// reports the login.
func (s *RegistrationService) ensureAvailable(ctx context.Context, login, email string) error {
	if _, err := s.dir.FindByLogin(ctx, login); err == nil {
		return &ConflictError{Field: "login"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check login: %w", err)
	}

	if _, err := s.dir.FindByEmail(ctx, email); err == nil {
		return &ConflictError{Field: "email"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return nil
}

func (s *RegistrationService) sendConfirmation(ctx context.Context, account *models.Account, code string) error {
	subject, body := notify.ConfirmationMessage(ctx, s.confirmURL, code)
	if err := s.sender.Send(ctx, account.Email, subject, body); err != nil {
		slog.ErrorContext(ctx, "confirmation_mail_failed", "account_id", account.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/go-accounts/internal/auth"
	authsvc "codeberg.org/oliverandrich/go-accounts/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for registration, confirmation and login.
type AuthHandlers struct {
	registration *authsvc.RegistrationService
	sessions     *authsvc.SessionService
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(registration *authsvc.RegistrationService, sessions *authsvc.SessionService) *AuthHandlers {
	return &AuthHandlers{
		registration: registration,
		sessions:     sessions,
	}
}

// RegistrationRequest is the body of POST /auth/registration.
type RegistrationRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ConfirmationRequest is the body of POST /auth/registration-confirmation.
type ConfirmationRequest struct {
	Code string `json:"code"`
}

// ResendRequest is the body of POST /auth/registration-email-resending.
type ResendRequest struct {
	Email string `json:"email"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	LoginOrEmail string `json:"loginOrEmail"`
	Password     string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// MeResponse describes the authenticated account.
type MeResponse struct {
	Email  string `json:"email"`
	Login  string `json:"login"`
	UserID string `json:"userId"`
}

// Register creates an account and sends its confirmation mail.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegistrationRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	_, err := h.registration.Register(c.Request().Context(), authsvc.RegisterParams{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return handleError(c, err, nil)
	}

	return c.NoContent(http.StatusNoContent)
}

// Confirm confirms an email address with the code from the confirmation mail.
func (h *AuthHandlers) Confirm(c echo.Context) error {
	var req ConfirmationRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.registration.Confirm(c.Request().Context(), req.Code); err != nil {
		return handleError(c, err, confirmErrors)
	}

	return c.NoContent(http.StatusNoContent)
}

// Resend mails a fresh confirmation code to an unconfirmed account.
func (h *AuthHandlers) Resend(c echo.Context) error {
	var req ResendRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.registration.Resend(c.Request().Context(), req.Email); err != nil {
		return handleError(c, err, resendErrors)
	}

	return c.NoContent(http.StatusNoContent)
}

// Login issues an access token for a confirmed account.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	accessToken, err := h.sessions.Login(c.Request().Context(), req.LoginOrEmail, req.Password)
	if err != nil {
		return handleError(c, err, nil)
	}

	return c.JSON(http.StatusOK, LoginResponse{AccessToken: accessToken})
}

// Me returns the account behind the bearer token.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAuthenticated(ctx) {
		return c.NoContent(http.StatusUnauthorized)
	}

	account, err := h.sessions.Me(ctx, auth.AccountID(ctx))
	if err != nil {
		return handleError(c, err, nil)
	}

	return c.JSON(http.StatusOK, MeResponse{
		Email:  account.Email,
		Login:  account.Login,
		UserID: account.ID,
	})
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/go-accounts/internal/config"
	"codeberg.org/oliverandrich/go-accounts/internal/database"
	"codeberg.org/oliverandrich/go-accounts/internal/handlers"
	"codeberg.org/oliverandrich/go-accounts/internal/i18n"
	"codeberg.org/oliverandrich/go-accounts/internal/middleware"
	"codeberg.org/oliverandrich/go-accounts/internal/observability"
	"codeberg.org/oliverandrich/go-accounts/internal/repository"
	authsvc "codeberg.org/oliverandrich/go-accounts/internal/services/auth"
	"codeberg.org/oliverandrich/go-accounts/internal/services/code"
	"codeberg.org/oliverandrich/go-accounts/internal/services/notify"
	"codeberg.org/oliverandrich/go-accounts/internal/services/password"
	"codeberg.org/oliverandrich/go-accounts/internal/services/token"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"mail_transport", cfg.Mail.Transport,
	)

	// Database and migrations
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	sender, err := notify.New(&cfg.Mail)
	if err != nil {
		return fmt.Errorf("failed to create mail sender: %w", err)
	}

	svc, err := newServices(cfg, repository.New(db), db, sender, nil)
	if err != nil {
		return err
	}

	e := newEcho(cfg, svc)

	return startWithGracefulShutdown(ctx, e, cfg)
}

// services bundles everything the routes depend on.
type services struct {
	db           handlers.Pinger
	registration *authsvc.RegistrationService
	sessions     *authsvc.SessionService
	issuer       *token.Issuer
	registry     *prometheus.Registry
}

// newServices wires the account flows on top of dir and sender. A nil now
// selects time.Now.
func newServices(cfg *config.Config, dir authsvc.Directory, db handlers.Pinger, sender notify.Sender, now func() time.Time) (*services, error) {
	secret, err := signingSecret(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(secret, cfg.Auth.TokenTTL, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	registry, metrics := observability.NewRegistry()
	observer := authsvc.Observers(metrics.Observe)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	return &services{
		db: db,
		registration: authsvc.NewRegistrationService(dir, hasher, code.NewGenerator(), sender, authsvc.RegistrationOptions{
			ConfirmURL:      cfg.Auth.ConfirmURL,
			ConfirmationTTL: cfg.Auth.ConfirmationTTL,
			Now:             now,
			Observer:        observer,
		}),
		sessions: authsvc.NewSessionService(dir, hasher, issuer, observer),
		issuer:   issuer,
		registry: registry,
	}, nil
}

// signingSecret returns the configured token secret or, when none is set, a
// random one valid until the process exits.
func signingSecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	slog.Warn("jwt_secret_generated", "hint", "set --jwt-secret or JWT_SECRET to keep tokens valid across restarts")
	return secret, nil
}

func newEcho(cfg *config.Config, svc *services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, svc)

	return e
}

func setupRoutes(e *echo.Echo, svc *services) {
	h := handlers.New(svc.db)
	a := handlers.NewAuth(svc.registration, svc.sessions)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(observability.Handler(svc.registry)))

	g := e.Group("/auth")
	g.POST("/registration", a.Register)
	g.POST("/registration-confirmation", a.Confirm)
	g.POST("/registration-email-resending", a.Resend)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.RequireBearer(svc.issuer))
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		var err error
		if cfg.TLS.Enabled() {
			err = e.StartTLS(addr, cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal, cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer(configPath())

// configPath returns the TOML file consulted after flags and environment.
func configPath() string {
	if path := os.Getenv("CONFIG"); path != "" {
		return path
	}
	return "config.toml"
}

// Mail transports.
const (
	TransportConsole = "console"
	TransportSMTP    = "smtp"
)

// Config holds the complete application configuration.
type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	TLS      TLSConfig
	Auth     AuthConfig
	Mail     MailConfig
}

// TLSConfig holds manual TLS certificate settings.
type TLSConfig struct {
	CertFile string // Path to certificate file
	KeyFile  string // Path to private key file
}

// Enabled reports whether both certificate and key are configured.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	DSN string
}

// AuthConfig holds token, confirmation and password hashing settings.
type AuthConfig struct { //nolint:govet // fieldalignment not critical for config structs
	JWTSecret       string
	TokenTTL        time.Duration
	ConfirmationTTL time.Duration
	BcryptCost      int
	ConfirmURL      string // Link target in confirmation mails; the code is appended as ?code=
}

// MailConfig selects the mail transport.
type MailConfig struct {
	Transport string // console, smtp
	SMTP      SMTPConfig
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// NewFromCLI builds a Config from parsed command flags.
func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		TLS: TLSConfig{
			CertFile: cmd.String("tls-cert-file"),
			KeyFile:  cmd.String("tls-key-file"),
		},
		Auth: AuthConfig{
			JWTSecret:       cmd.String("jwt-secret"),
			TokenTTL:        cmd.Duration("token-ttl"),
			ConfirmationTTL: cmd.Duration("confirmation-ttl"),
			BcryptCost:      int(cmd.Int("bcrypt-cost")),
			ConfirmURL:      cmd.String("confirm-url"),
		},
		Mail: MailConfig{
			Transport: strings.ToLower(cmd.String("mail-transport")),
			SMTP: SMTPConfig{
				Host:     cmd.String("smtp-host"),
				Port:     int(cmd.Int("smtp-port")),
				Username: cmd.String("smtp-username"),
				Password: cmd.String("smtp-password"),
				From:     cmd.String("smtp-from"),
				FromName: cmd.String("smtp-from-name"),
				TLS:      cmd.Bool("smtp-tls"),
			},
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}
	cfg.Server.BaseURL = strings.TrimSuffix(cfg.Server.BaseURL, "/")

	if cfg.Auth.ConfirmURL == "" {
		cfg.Auth.ConfirmURL = cfg.Server.BaseURL + "/confirm-email"
	}

	return cfg
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mail.Transport {
	case TransportConsole:
	case TransportSMTP:
		if c.Mail.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP host is required"))
		}
		if c.Mail.SMTP.From == "" {
			errs = append(errs, errors.New("SMTP from address is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mail transport %q", c.Mail.Transport))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	if c.Auth.ConfirmationTTL <= 0 {
		errs = append(errs, errors.New("confirmation TTL must be positive"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS needs both certificate and key file"))
	}

	return errors.Join(errs...)
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	scheme := "http"
	if cfg.TLS.Enabled() {
		scheme = "https"
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

// Flags returns the command line flags with their env and TOML sources.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/app.db",
			Usage:   "Database DSN (SQLite path or postgres:// URL)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_FILE"), toml.TOML("tls.cert_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_KEY_FILE"), toml.TOML("tls.key_file", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "Secret for signing access tokens (random per start if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET"), toml.TOML("auth.jwt_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-ttl",
			Value:   time.Hour,
			Usage:   "Lifetime of access tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_TTL"), toml.TOML("auth.token_ttl", configFile)),
		},
		&cli.DurationFlag{
			Name:    "confirmation-ttl",
			Value:   time.Hour,
			Usage:   "Lifetime of email confirmation codes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CONFIRMATION_TTL"), toml.TOML("auth.confirmation_ttl", configFile)),
		},
		&cli.IntFlag{
			Name:    "bcrypt-cost",
			Value:   10,
			Usage:   "bcrypt cost factor for password hashing",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BCRYPT_COST"), toml.TOML("auth.bcrypt_cost", configFile)),
		},
		&cli.StringFlag{
			Name:    "confirm-url",
			Usage:   "Confirmation link target (defaults to <base-url>/confirm-email)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CONFIRM_URL"), toml.TOML("auth.confirm_url", configFile)),
		},
		// Mail flags
		&cli.StringFlag{
			Name:    "mail-transport",
			Value:   TransportConsole,
			Usage:   "Mail transport (console, smtp)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_TRANSPORT"), toml.TOML("mail.transport", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("mail.smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("mail.smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("mail.smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("mail.smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("mail.smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "Sender display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("mail.smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP (implicit on port 465, STARTTLS otherwise)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("mail.smtp.tls", configFile)),
		},
	}
}

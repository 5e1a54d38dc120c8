// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package notify

import (
	"context"
	"log/slog"

	"codeberg.org/oliverandrich/go-accounts/internal/i18n"
)

// Console writes messages to the log instead of delivering them.
type Console struct {
	logger *slog.Logger
}

// NewConsole creates a console sender. A nil logger uses slog.Default.
func NewConsole(logger *slog.Logger) *Console {
	return &Console{logger: logger}
}

// Send logs the message and never fails.
func (c *Console) Send(ctx context.Context, to, subject, body string) error {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "mail_sent",
		"transport", "console",
		"locale", i18n.GetLocale(ctx),
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

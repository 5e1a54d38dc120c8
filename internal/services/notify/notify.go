// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package notify delivers account notifications by mail.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"codeberg.org/oliverandrich/go-accounts/internal/config"
	"codeberg.org/oliverandrich/go-accounts/internal/i18n"
)

// Sender delivers a single message. A returned error means the message was
// not accepted for delivery.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns the sender selected by cfg.Transport.
func New(cfg *config.MailConfig) (Sender, error) {
	switch cfg.Transport {
	case config.TransportConsole, "":
		return NewConsole(nil), nil
	case config.TransportSMTP:
		return NewSMTP(&cfg.SMTP)
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

// ConfirmationLink appends code as the code query parameter of confirmURL.
func ConfirmationLink(confirmURL, code string) string {
	u, err := url.Parse(confirmURL)
	if err != nil {
		return confirmURL + "?code=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConfirmationMessage renders the confirmation mail in the locale carried by
// ctx. The body contains the code inside the link and as <b>code</b>.
func ConfirmationMessage(ctx context.Context, confirmURL, code string) (subject, body string) {
	subject = i18n.T(ctx, "confirmation_email_subject")
	body = i18n.TData(ctx, "confirmation_email_body", map[string]any{
		"ConfirmURL": ConfirmationLink(confirmURL, code),
		"Code":       code,
	})
	return subject, body
}

var (
	linkCodePattern = regexp.MustCompile(`[?&]code=([^"'&\s<>]+)`)
	boldCodePattern = regexp.MustCompile(`<b>([^<]+)</b>`)
)

// ExtractCode recovers the confirmation code from a message body.
func ExtractCode(body string) (string, bool) {
	if m := linkCodePattern.FindStringSubmatch(body); m != nil {
		if code, err := url.QueryUnescape(m[1]); err == nil {
			return code, true
		}
		return m[1], true
	}
	if m := boldCodePattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

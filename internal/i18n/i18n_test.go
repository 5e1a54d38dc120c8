// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/go-accounts/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	require.NoError(t, i18n.Init())
	require.NoError(t, i18n.Init())
}

func TestT(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Confirm your registration", i18n.T(ctx, "confirmation_email_subject"))
}

func TestT_German(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "Bestätigen Sie Ihre Registrierung", i18n.T(ctx, "confirmation_email_subject"))
}

func TestT_UnknownKey(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	// Unknown messages fall back to their ID
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	result := i18n.T(context.Background(), "confirmation_email_subject")
	assert.Equal(t, "Confirm your registration", result)
}

func TestTData(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.TData(ctx, "confirmation_email_body", map[string]any{
		"ConfirmURL": "https://example.com/confirm-email?code=abc",
		"Code":       "abc",
	})

	assert.Contains(t, result, "<a href='https://example.com/confirm-email?code=abc'>")
	assert.Contains(t, result, "<b>abc</b>")
}

func TestTData_German(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.German)

	result := i18n.TData(ctx, "confirmation_email_body", map[string]any{
		"ConfirmURL": "https://example.com/confirm-email?code=abc",
		"Code":       "abc",
	})

	assert.Contains(t, result, "Registrierung abschließen")
	assert.Contains(t, result, "<b>abc</b>")
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en"},
		{language.English, "en-US"},
		{language.German, "de"},
		{language.German, "de-DE"},
		{language.German, "de-AT"},
		{language.English, "fr"}, // fallback to English
		{language.English, ""},   // empty defaults to English
		{language.German, "de, en;q=0.9"},
		{language.English, "en, de;q=0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.MatchLanguage(tt.acceptLanguage))
		})
	}
}

func TestWithLocale(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "de", i18n.GetLocale(ctx))
}

func TestGetLocale_Default(t *testing.T) {
	assert.Equal(t, "en", i18n.GetLocale(context.Background()))
}

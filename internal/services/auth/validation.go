// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type registrationInput struct {
	Login    string `json:"login" validate:"min=3,max=10"`
	Password string `json:"password" validate:"min=6,max=20"`
	Email    string `json:"email" validate:"required,email"`
}

var registrationMessages = map[string]string{
	"login":    "login 3-10",
	"password": "password 6-20",
	"email":    "invalid email",
}

type loginInput struct {
	LoginOrEmail string `json:"loginOrEmail" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"loginOrEmail": "loginOrEmail is required",
	"password":     "password is required",
}

type confirmInput struct {
	Code string `json:"code" validate:"required"`
}

var confirmMessages = map[string]string{
	"code": "code is required",
}

type resendInput struct {
	Email string `json:"email" validate:"required,email"`
}

var resendMessages = map[string]string{
	"email": "invalid email",
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput returns a *ValidationError for the first failing field.
func validateInput(v *validator.Validate, input any, messages map[string]string) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	field := fieldErrs[0].Field()
	message, ok := messages[field]
	if !ok {
		message = fieldErrs[0].Error()
	}
	return &ValidationError{Field: field, Message: message}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package code generates one-time email confirmation codes.
package code

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces confirmation codes.
type Generator struct{}

// NewGenerator creates a new code generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a random UUIDv4 string (122 random bits from crypto/rand).
func (g *Generator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return id.String(), nil
}

package id

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a random (v4) UUID in canonical form.
func New() string { return uuid.NewString() }

// NewID32 returns a random UUID as exactly 32 lowercase hex characters.
func NewID32() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

// Valid reports whether s parses as a UUID in either form.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

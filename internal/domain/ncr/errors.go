package ncr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("ncr entry not found")
	ErrConnection   = errors.New("record store unreachable")
	ErrWrite        = errors.New("record store rejected the write")
	ErrValidation   = errors.New("invalid ncr entry")
	ErrNoIdentifier = errors.New("entry has no identifier")
)

// ConnectionHint is shown next to ErrConnection so operators know where to look.
const ConnectionHint = "check DB_DSN, network access to the database, and that the ncr_entries table exists"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Message) }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

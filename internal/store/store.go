package store

import (
	"context"
	"errors"

	"github.com/gdg-garage/maitri-passes/internal/models"
)

// CodeUniqueViolation is the Postgres SQLSTATE for unique_violation.
// Every store reports duplicate keys with this code.
const CodeUniqueViolation = "23505"

// Inserter writes a single registration row. It never reads rows back.
type Inserter interface {
	Insert(ctx context.Context, table string, rec models.Record) error
}

// Error is a structured failure reported by the backing store.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsUniqueViolation reports whether err is a store error for a duplicate key.
func IsUniqueViolation(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == CodeUniqueViolation
}

// Message returns the human readable part of a store failure.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

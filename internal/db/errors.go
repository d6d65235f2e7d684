package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
	ErrDatabase  = errors.New("database error")
)

// StoreError provides context for store operations.
type StoreError struct {
	Op  string // Operation that failed (e.g., "get game")
	Ref string // Game id or folder if applicable
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s '%s': %v", e.Op, e.Ref, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapDBError converts a database error to a store error carrying op and ref.
func WrapDBError(err error, op, ref string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return &StoreError{Op: op, Ref: ref, Err: ErrNotFound}
	}

	// SQLite reports constraint violations only through the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &StoreError{Op: op, Ref: ref, Err: fmt.Errorf("%w: entry already exists", ErrDuplicate)}
	case strings.Contains(msg, "no such table"):
		return &StoreError{Op: op, Ref: ref, Err: fmt.Errorf("%w: database not initialized", ErrDatabase)}
	}

	return &StoreError{Op: op, Ref: ref, Err: fmt.Errorf("%w: %v", ErrDatabase, err)}
}

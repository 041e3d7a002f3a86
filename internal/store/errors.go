package store

import (
	"database/sql"
	"errors"
	"strings"
)

// Typed errors for the write paths. Handlers map these to HTTP status codes;
// the core never retries on any of them.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey means a unique constraint was violated
	// (order number, product code, username).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidTransition means a work order status change is not allowed
	// by the state machine.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConstraint means a write violated a data rule (unknown foreign key,
	// negative stock, defects exceeding quantity).
	ErrConstraint = errors.New("constraint violation")
	// ErrTxFailed means the storage layer failed mid-transaction; the whole
	// compound write was rolled back.
	ErrTxFailed = errors.New("transaction failed")
)

// Classify maps driver-level errors onto the typed taxonomy. SQLite reports
// constraint failures only through the error text, so match on it.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicateKey
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return ErrConstraint
	}
	return err
}

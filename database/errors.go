package database

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers. Check with errors.Is.
var (
	// ErrNotFound means a referenced board, list, card, checklist, or item
	// does not exist (or a card is not where the caller claims it is).
	ErrNotFound = errors.New("not found")

	// ErrConflict means the store reported contention (busy/locked) while a
	// reindex transaction ran. The caller should refetch and retry; nothing
	// was partially applied.
	ErrConflict = errors.New("conflicting concurrent update")
)

// ValidationError reports malformed input: empty id arrays, id sets that
// don't match the board, blank titles. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// TransactionError wraps a failure to commit an atomic reindex. The store
// guarantees the transaction rolled back fully, so positions are never left
// half-updated.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

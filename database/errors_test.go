package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func TestIsBusy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{"wrapped busy", fmt.Errorf("update cards: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), true},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBusy(tt.err); got != tt.want {
				t.Errorf("isBusy(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}

func TestInTx_BusyBecomesConflict(t *testing.T) {
	f := newFixture(t)

	err := inTx(f.db, "move card", func(tx *sql.Tx) error {
		return fmt.Errorf("update cards: %w", sqlite3.Error{Code: sqlite3.ErrBusy})
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestInTx_OtherErrorsPassThrough(t *testing.T) {
	f := newFixture(t)

	cause := errors.New("boom")
	err := inTx(f.db, "move card", func(tx *sql.Tx) error {
		return cause
	})
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want the fn's own error", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, must not map to ErrConflict", err)
	}
}

func TestTransactionError_Unwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := &TransactionError{Op: "archive card", Err: cause}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/mattn/go-sqlite3"
)

// InitDB opens the sqlite database at path and ensures the schema exists.
// Positions are plain integers; the dense {0..n-1} ordering of each
// container's active items is maintained by the services in this package,
// not by a schema constraint (range shifts would transiently collide with a
// positional unique index).
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialize writers. sqlite allows one writer at a time anyway; a single
	// connection avoids SQLITE_BUSY between our own transactions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS lists (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL REFERENCES boards(id),
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL REFERENCES lists(id),
			board_id TEXT NOT NULL REFERENCES boards(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			archived INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS checklists (
			id TEXT PRIMARY KEY,
			card_id TEXT NOT NULL REFERENCES cards(id),
			title TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'ordinary'
		)`,
		`CREATE TABLE IF NOT EXISTS checklist_items (
			id TEXT PRIMARY KEY,
			checklist_id TEXT NOT NULL REFERENCES checklists(id),
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			stage_list_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_board ON lists(board_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_list ON cards(list_id, archived, position)`,
		`CREATE INDEX IF NOT EXISTS idx_items_checklist ON checklist_items(checklist_id, position)`,
		// One workflow checklist per card.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_workflow_per_card
			ON checklists(card_id) WHERE kind = 'workflow'`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	log.Println("Database initialized successfully")
	return db, nil
}

// inTx runs fn inside a transaction. Any error rolls the whole transaction
// back, so a multi-row reindex is never partially visible. Store contention
// surfaces as ErrConflict; a failed commit is wrapped in TransactionError.
func inTx(db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return &TransactionError{Op: op, Err: err}
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		if isBusy(err) {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isBusy(err) {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return &TransactionError{Op: op, Err: err}
	}
	return nil
}

func isBusy(err error) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.Code == sqlite3.ErrBusy || sqlErr.Code == sqlite3.ErrLocked
}

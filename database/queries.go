package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/CrowderSoup/kanban-app/ordering"
)

// Transaction-scoped queries shared by the position and workflow services.
// Everything that computes a destination index from a live count runs these
// inside the same transaction as the writes that depend on the count.

func getCardTx(tx *sql.Tx, cardID string) (*Card, error) {
	row := tx.QueryRow(`
		SELECT id, list_id, board_id, title, description, position, archived, created_at
		FROM cards WHERE id = ?`, cardID)

	var c Card
	err := row.Scan(&c.ID, &c.ListID, &c.BoardID, &c.Title, &c.Description,
		&c.Position, &c.Archived, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", cardID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card %s: %w", cardID, err)
	}
	return &c, nil
}

func getListTx(tx *sql.Tx, listID string) (*List, error) {
	row := tx.QueryRow(`
		SELECT id, board_id, title, position, created_at
		FROM lists WHERE id = ?`, listID)

	var l List
	err := row.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", listID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query list %s: %w", listID, err)
	}
	return &l, nil
}

// countActiveCardsTx counts the non-archived cards of a list. Archived cards
// are excluded from ordering everywhere, so this is the "n" of the dense
// {0..n-1} invariant.
func countActiveCardsTx(tx *sql.Tx, listID string) (int, error) {
	var n int
	err := tx.QueryRow(
		`SELECT COUNT(*) FROM cards WHERE list_id = ? AND archived = 0`, listID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards in list %s: %w", listID, err)
	}
	return n, nil
}

func countListsTx(tx *sql.Tx, boardID string) (int, error) {
	var n int
	err := tx.QueryRow(
		`SELECT COUNT(*) FROM lists WHERE board_id = ?`, boardID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count lists on board %s: %w", boardID, err)
	}
	return n, nil
}

// shiftCardsTx applies a reindex plan to a list's active cards as bulk
// range updates.
func shiftCardsTx(tx *sql.Tx, listID string, shifts []ordering.Shift) error {
	for _, s := range shifts {
		_, err := tx.Exec(`
			UPDATE cards SET position = position + ?
			WHERE list_id = ? AND archived = 0 AND position BETWEEN ? AND ?`,
			s.Delta, listID, s.Lo, s.Hi)
		if err != nil {
			return fmt.Errorf("failed to shift cards in list %s: %w", listID, err)
		}
	}
	return nil
}

func shiftListsTx(tx *sql.Tx, boardID string, shifts []ordering.Shift) error {
	for _, s := range shifts {
		_, err := tx.Exec(`
			UPDATE lists SET position = position + ?
			WHERE board_id = ? AND position BETWEEN ? AND ?`,
			s.Delta, boardID, s.Lo, s.Hi)
		if err != nil {
			return fmt.Errorf("failed to shift lists on board %s: %w", boardID, err)
		}
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]ChecklistItem, error) {
	items := []ChecklistItem{}
	for rows.Next() {
		var it ChecklistItem
		if err := rows.Scan(&it.ID, &it.ChecklistID, &it.Title, &it.Position,
			&it.Completed, &it.StageListID); err != nil {
			return nil, fmt.Errorf("failed to scan checklist item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checklist items: %w", err)
	}
	return items, nil
}

func listItemsTx(tx *sql.Tx, checklistID string) ([]ChecklistItem, error) {
	rows, err := tx.Query(`
		SELECT id, checklist_id, title, position, completed, stage_list_id
		FROM checklist_items WHERE checklist_id = ? ORDER BY position ASC`,
		checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checklist items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

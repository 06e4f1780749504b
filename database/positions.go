package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/CrowderSoup/kanban-app/ordering"
	"github.com/google/uuid"
)

// PositionService owns every mutation that touches card or list ordering.
// Each operation runs as one atomic transaction: either the full reindex
// applies or none of it does.
type PositionService struct {
	db *sql.DB
}

func NewPositionService(db *sql.DB) *PositionService {
	return &PositionService{db: db}
}

// ReorderLists assigns positions 0..n-1 to the board's lists in the given
// sequence. The ids must be a permutation of the board's current lists;
// anything else is a ValidationError rather than a silent partial write.
func (s *PositionService) ReorderLists(boardID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return validationf("ids must not be empty")
	}
	return inTx(s.db, "reorder lists", func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT id FROM lists WHERE board_id = ?`, boardID)
		if err != nil {
			return fmt.Errorf("failed to query lists on board %s: %w", boardID, err)
		}
		current := make(map[string]bool)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan list id: %w", err)
			}
			current[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to read list ids: %w", err)
		}

		if len(current) == 0 {
			return fmt.Errorf("board %s: %w", boardID, ErrNotFound)
		}
		if len(orderedIDs) != len(current) {
			return validationf("ids must contain each of the board's %d lists exactly once", len(current))
		}
		seen := make(map[string]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if !current[id] {
				return validationf("list %s does not belong to board %s", id, boardID)
			}
			if seen[id] {
				return validationf("list %s appears more than once", id)
			}
			seen[id] = true
		}

		for i, id := range orderedIDs {
			if _, err := tx.Exec(
				`UPDATE lists SET position = ? WHERE id = ?`, i, id); err != nil {
				return fmt.Errorf("failed to update list %s position: %w", id, err)
			}
		}
		return nil
	})
}

// MoveCard relocates a card within its list or across lists, keeping the
// active positions of both affected lists dense. The destination index is
// clamped, never rejected.
func (s *PositionService) MoveCard(cardID, fromListID, toListID string, toIndex int) error {
	return inTx(s.db, "move card", func(tx *sql.Tx) error {
		return moveCardTx(tx, cardID, fromListID, toListID, toIndex)
	})
}

// moveCardTx is the transaction-scoped move, shared with the workflow
// service so a stage transition commits in the same transaction as the
// checklist update that triggered it.
func moveCardTx(tx *sql.Tx, cardID, fromListID, toListID string, toIndex int) error {
	card, err := getCardTx(tx, cardID)
	if err != nil {
		return err
	}
	if card.Archived || card.ListID != fromListID {
		return fmt.Errorf("card %s is not active in list %s: %w", cardID, fromListID, ErrNotFound)
	}

	if fromListID == toListID {
		count, err := countActiveCardsTx(tx, fromListID)
		if err != nil {
			return err
		}
		to, shifts := ordering.MoveWithin(count, card.Position, toIndex)
		if to == card.Position {
			return nil
		}
		if err := shiftCardsTx(tx, fromListID, shifts); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`UPDATE cards SET position = ? WHERE id = ?`, to, cardID); err != nil {
			return fmt.Errorf("failed to place card %s: %w", cardID, err)
		}
		return nil
	}

	dest, err := getListTx(tx, toListID)
	if err != nil {
		return err
	}
	srcCount, err := countActiveCardsTx(tx, fromListID)
	if err != nil {
		return err
	}
	dstCount, err := countActiveCardsTx(tx, toListID)
	if err != nil {
		return err
	}

	to, srcShifts, dstShifts := ordering.MoveBetween(srcCount, card.Position, dstCount, toIndex)
	if err := shiftCardsTx(tx, fromListID, srcShifts); err != nil {
		return err
	}
	if err := shiftCardsTx(tx, toListID, dstShifts); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE cards SET list_id = ?, board_id = ?, position = ? WHERE id = ?`,
		toListID, dest.BoardID, to, cardID); err != nil {
		return fmt.Errorf("failed to place card %s: %w", cardID, err)
	}
	return nil
}

// CreateCard appends a new card at the end of the list's active sequence.
// Gaps left by archived cards are never reused.
func (s *PositionService) CreateCard(listID, title, description string) (*Card, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("card title must not be empty")
	}

	var card *Card
	err := inTx(s.db, "create card", func(tx *sql.Tx) error {
		list, err := getListTx(tx, listID)
		if err != nil {
			return err
		}
		count, err := countActiveCardsTx(tx, listID)
		if err != nil {
			return err
		}
		card = &Card{
			ID:          uuid.NewString(),
			ListID:      listID,
			BoardID:     list.BoardID,
			Title:       title,
			Description: description,
			Position:    count,
			CreatedAt:   time.Now().UTC(),
		}
		_, err = tx.Exec(`
			INSERT INTO cards (id, list_id, board_id, title, description, position, archived, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
			card.ID, card.ListID, card.BoardID, card.Title, card.Description,
			card.Position, card.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// SetArchived archives or restores a card. Archiving keeps the card's now
// stale position and does not compact its former siblings; the card is
// simply excluded from active ordering from then on. Restoring appends the
// card at the tail of its original list, never back into its old slot.
func (s *PositionService) SetArchived(cardID string, archived bool) error {
	return inTx(s.db, "set archived", func(tx *sql.Tx) error {
		return setArchivedTx(tx, cardID, archived)
	})
}

func setArchivedTx(tx *sql.Tx, cardID string, archived bool) error {
	card, err := getCardTx(tx, cardID)
	if err != nil {
		return err
	}
	if card.Archived == archived {
		return nil
	}

	if archived {
		if _, err := tx.Exec(
			`UPDATE cards SET archived = 1 WHERE id = ?`, cardID); err != nil {
			return fmt.Errorf("failed to archive card %s: %w", cardID, err)
		}
		return nil
	}

	count, err := countActiveCardsTx(tx, card.ListID)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE cards SET archived = 0, position = ? WHERE id = ?`,
		count, cardID); err != nil {
		return fmt.Errorf("failed to restore card %s: %w", cardID, err)
	}
	return nil
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateChecklist adds an ordinary checklist to a card. Workflow checklists
// are only ever created through WorkflowService.DefineWorkflow.
func (s *BoardService) CreateChecklist(cardID, title string) (*Checklist, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("checklist title must not be empty")
	}

	var cl *Checklist
	err := inTx(s.db, "create checklist", func(tx *sql.Tx) error {
		if _, err := getCardTx(tx, cardID); err != nil {
			return err
		}
		cl = &Checklist{
			ID:     uuid.NewString(),
			CardID: cardID,
			Title:  title,
			Kind:   KindOrdinary,
			Items:  []ChecklistItem{},
		}
		_, err := tx.Exec(
			`INSERT INTO checklists (id, card_id, title, kind) VALUES (?, ?, ?, ?)`,
			cl.ID, cl.CardID, cl.Title, cl.Kind)
		if err != nil {
			return fmt.Errorf("failed to insert checklist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// GetChecklist returns a checklist of either kind with its items in order.
func (s *BoardService) GetChecklist(checklistID string) (*Checklist, error) {
	var cl *Checklist
	err := inTx(s.db, "get checklist", func(tx *sql.Tx) error {
		row := tx.QueryRow(
			`SELECT id, card_id, title, kind FROM checklists WHERE id = ?`, checklistID)
		var c Checklist
		if err := row.Scan(&c.ID, &c.CardID, &c.Title, &c.Kind); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("checklist %s: %w", checklistID, ErrNotFound)
			}
			return fmt.Errorf("failed to query checklist %s: %w", checklistID, err)
		}
		items, err := listItemsTx(tx, c.ID)
		if err != nil {
			return err
		}
		c.Items = items
		cl = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// AddChecklistItem appends an item at the end of a checklist.
func (s *BoardService) AddChecklistItem(checklistID, title string) (*ChecklistItem, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("item title must not be empty")
	}

	var item *ChecklistItem
	err := inTx(s.db, "add checklist item", func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM checklists WHERE id = ?)`, checklistID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to query checklist %s: %w", checklistID, err)
		}
		if !exists {
			return fmt.Errorf("checklist %s: %w", checklistID, ErrNotFound)
		}

		var count int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM checklist_items WHERE checklist_id = ?`, checklistID,
		).Scan(&count); err != nil {
			return fmt.Errorf("failed to count checklist items: %w", err)
		}

		item = &ChecklistItem{
			ID:          uuid.NewString(),
			ChecklistID: checklistID,
			Title:       title,
			Position:    count,
		}
		_, err := tx.Exec(`
			INSERT INTO checklist_items (id, checklist_id, title, position, completed, stage_list_id)
			VALUES (?, ?, ?, ?, 0, NULL)`,
			item.ID, item.ChecklistID, item.Title, item.Position)
		if err != nil {
			return fmt.Errorf("failed to insert checklist item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

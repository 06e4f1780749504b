package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// terminalStageLabel is the reserved stage name that archives the card when
// completed, regardless of where the stage sits in the sequence. Matched
// case-insensitively.
const terminalStageLabel = "invoicing"

// unknownListLabel is the fallback stage label when a stage's list id no
// longer resolves. A degraded stage is still a valid stage.
const unknownListLabel = "Unknown List"

// ItemPatch is a partial checklist-item update. Nil fields are untouched.
type ItemPatch struct {
	Title     *string
	Completed *bool
}

// WorkflowService maintains each card's workflow checklist, an ordered
// sequence of stages where each stage points at the list that represents
// it. Completing a stage moves the card to the next stage's list; completing
// the terminal stage archives it.
type WorkflowService struct {
	db *sql.DB
}

func NewWorkflowService(db *sql.DB) *WorkflowService {
	return &WorkflowService{db: db}
}

// DefineWorkflow replaces the card's workflow stages with the given list
// sequence. The checklist is created lazily; its existing items are wiped
// and recreated, deliberately discarding prior completion state. The
// workflow is configuration, not a log. An empty sequence clears the stages
// but keeps the checklist.
func (s *WorkflowService) DefineWorkflow(cardID string, listIDs []string) (*Checklist, error) {
	var cl *Checklist
	err := inTx(s.db, "define workflow", func(tx *sql.Tx) error {
		card, err := getCardTx(tx, cardID)
		if err != nil {
			return err
		}

		checklist, err := workflowChecklistTx(tx, cardID)
		if errors.Is(err, sql.ErrNoRows) {
			checklist = &Checklist{
				ID:     uuid.NewString(),
				CardID: cardID,
				Title:  WorkflowChecklistTitle,
				Kind:   KindWorkflow,
			}
			if _, err := tx.Exec(`
				INSERT INTO checklists (id, card_id, title, kind) VALUES (?, ?, ?, ?)`,
				checklist.ID, checklist.CardID, checklist.Title, checklist.Kind); err != nil {
				return fmt.Errorf("failed to create workflow checklist: %w", err)
			}
		} else if err != nil {
			return err
		}

		if _, err := tx.Exec(
			`DELETE FROM checklist_items WHERE checklist_id = ?`, checklist.ID); err != nil {
			return fmt.Errorf("failed to clear workflow items: %w", err)
		}

		checklist.Items = []ChecklistItem{}
		for i, listID := range listIDs {
			label := unknownListLabel
			var title string
			err := tx.QueryRow(
				`SELECT title FROM lists WHERE id = ? AND board_id = ?`,
				listID, card.BoardID,
			).Scan(&title)
			if err == nil {
				label = title
			} else if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to resolve list %s: %w", listID, err)
			}

			stageListID := listID
			item := ChecklistItem{
				ID:          uuid.NewString(),
				ChecklistID: checklist.ID,
				Title:       label,
				Position:    i,
				Completed:   false,
				StageListID: &stageListID,
			}
			if _, err := tx.Exec(`
				INSERT INTO checklist_items (id, checklist_id, title, position, completed, stage_list_id)
				VALUES (?, ?, ?, ?, 0, ?)`,
				item.ID, item.ChecklistID, item.Title, item.Position, item.StageListID); err != nil {
				return fmt.Errorf("failed to insert workflow item: %w", err)
			}
			checklist.Items = append(checklist.Items, item)
		}

		cl = checklist
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// GetWorkflow returns the card's workflow checklist with its stage items in
// pipeline order, or ErrNotFound if the card has none.
func (s *WorkflowService) GetWorkflow(cardID string) (*Checklist, error) {
	var cl *Checklist
	err := inTx(s.db, "get workflow", func(tx *sql.Tx) error {
		if _, err := getCardTx(tx, cardID); err != nil {
			return err
		}
		checklist, err := workflowChecklistTx(tx, cardID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("workflow checklist for card %s: %w", cardID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		checklist.Items, err = listItemsTx(tx, checklist.ID)
		if err != nil {
			return err
		}
		cl = checklist
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// UpdateItem applies a patch to a checklist item. When the patch flips
// Completed to true on a workflow checklist item, the stage transition
// (move to the next stage's list, or archive on the terminal stage) runs in
// the same transaction as the item update: the item is never committed as
// complete with the transition silently lost. Items of ordinary checklists
// update with no side effects. Unchecking never reverses a past transition.
func (s *WorkflowService) UpdateItem(itemID string, patch ItemPatch) (*ChecklistItem, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, validationf("item title must not be empty")
	}

	var updated *ChecklistItem
	err := inTx(s.db, "update checklist item", func(tx *sql.Tx) error {
		item, checklist, err := getItemTx(tx, itemID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			title := *patch.Title
			if checklist.Kind == KindWorkflow {
				// Older clients send the composite "label|listId" form; split
				// it exactly once here. Downstream code only ever sees the
				// structured stage pointer.
				if label, stageListID, ok := splitStageTitle(title); ok {
					title = label
					item.StageListID = &stageListID
				}
			}
			item.Title = title
		}

		completing := false
		if patch.Completed != nil {
			completing = *patch.Completed && !item.Completed
			item.Completed = *patch.Completed
		}

		if _, err := tx.Exec(`
			UPDATE checklist_items SET title = ?, completed = ?, stage_list_id = ?
			WHERE id = ?`,
			item.Title, item.Completed, item.StageListID, item.ID); err != nil {
			return fmt.Errorf("failed to update item %s: %w", itemID, err)
		}

		if completing && checklist.Kind == KindWorkflow {
			if err := advanceStageTx(tx, checklist, item); err != nil {
				return err
			}
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// advanceStageTx performs the transition triggered by completing a workflow
// stage. The terminal "invoicing" label archives the card and skips the
// generic next-stage move; the last stage of the sequence otherwise
// transitions nowhere. An unresolvable next-stage list skips the move but
// keeps the completion; checklist state wins over perfect navigation.
func advanceStageTx(tx *sql.Tx, checklist *Checklist, item *ChecklistItem) error {
	card, err := getCardTx(tx, checklist.CardID)
	if err != nil {
		return err
	}

	if strings.EqualFold(item.Title, terminalStageLabel) {
		return setArchivedTx(tx, card.ID, true)
	}
	if card.Archived {
		// Checking stages of an archived card records the completion only.
		return nil
	}

	items, err := listItemsTx(tx, checklist.ID)
	if err != nil {
		return err
	}
	idx := -1
	for i, it := range items {
		if it.ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(items)-1 {
		// Last stage without the terminal label: the card stays put.
		return nil
	}

	next := items[idx+1]
	if next.StageListID == nil {
		log.Printf("Workflow stage %q on card %s has no target list, skipping move", next.Title, card.ID)
		return nil
	}
	if _, err := getListTx(tx, *next.StageListID); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("Workflow stage %q on card %s points at a missing list, skipping move", next.Title, card.ID)
			return nil
		}
		return err
	}

	destCount, err := countActiveCardsTx(tx, *next.StageListID)
	if err != nil {
		return err
	}
	return moveCardTx(tx, card.ID, card.ListID, *next.StageListID, destCount)
}

func workflowChecklistTx(tx *sql.Tx, cardID string) (*Checklist, error) {
	row := tx.QueryRow(`
		SELECT id, card_id, title, kind FROM checklists
		WHERE card_id = ? AND kind = ?`, cardID, KindWorkflow)

	var cl Checklist
	err := row.Scan(&cl.ID, &cl.CardID, &cl.Title, &cl.Kind)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func getItemTx(tx *sql.Tx, itemID string) (*ChecklistItem, *Checklist, error) {
	row := tx.QueryRow(`
		SELECT i.id, i.checklist_id, i.title, i.position, i.completed, i.stage_list_id,
		       c.id, c.card_id, c.title, c.kind
		FROM checklist_items i
		JOIN checklists c ON c.id = i.checklist_id
		WHERE i.id = ?`, itemID)

	var it ChecklistItem
	var cl Checklist
	err := row.Scan(&it.ID, &it.ChecklistID, &it.Title, &it.Position, &it.Completed,
		&it.StageListID, &cl.ID, &cl.CardID, &cl.Title, &cl.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("checklist item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query item %s: %w", itemID, err)
	}
	return &it, &cl, nil
}

// splitStageTitle splits the legacy "label|listId" composite form. Titles
// without a separator come back unchanged.
func splitStageTitle(s string) (label, listID string, composite bool) {
	label, listID, composite = strings.Cut(s, "|")
	return strings.TrimSpace(label), strings.TrimSpace(listID), composite
}

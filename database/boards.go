package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BoardService covers board and list lifecycle plus the snapshot reads the
// page collaborator caches. Ordering mutations live in PositionService.
type BoardService struct {
	db *sql.DB
}

func NewBoardService(db *sql.DB) *BoardService {
	return &BoardService{db: db}
}

func (s *BoardService) CreateBoard(title string) (*Board, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("board title must not be empty")
	}
	board := &Board{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO boards (id, title, created_at) VALUES (?, ?, ?)`,
		board.ID, board.Title, board.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert board: %w", err)
	}
	return board, nil
}

// CreateList appends a new list at the end of the board's sequence.
func (s *BoardService) CreateList(boardID, title string) (*List, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("list title must not be empty")
	}

	var list *List
	err := inTx(s.db, "create list", func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM boards WHERE id = ?)`, boardID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to query board %s: %w", boardID, err)
		}
		if !exists {
			return fmt.Errorf("board %s: %w", boardID, ErrNotFound)
		}

		count, err := countListsTx(tx, boardID)
		if err != nil {
			return err
		}
		list = &List{
			ID:        uuid.NewString(),
			BoardID:   boardID,
			Title:     title,
			Position:  count,
			CreatedAt: time.Now().UTC(),
		}
		_, err = tx.Exec(
			`INSERT INTO lists (id, board_id, title, position, created_at) VALUES (?, ?, ?, ?, ?)`,
			list.ID, list.BoardID, list.Title, list.Position, list.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetBoard returns the board with its lists and each list's active cards in
// position order. Archived cards never appear here.
func (s *BoardService) GetBoard(boardID string) (*BoardView, error) {
	view := &BoardView{Lists: []ListView{}}

	row := s.db.QueryRow(
		`SELECT id, title, created_at FROM boards WHERE id = ?`, boardID)
	err := row.Scan(&view.ID, &view.Title, &view.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s: %w", boardID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query board %s: %w", boardID, err)
	}

	rows, err := s.db.Query(`
		SELECT id, board_id, title, position, created_at
		FROM lists WHERE board_id = ? ORDER BY position ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l List
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		view.Lists = append(view.Lists, ListView{List: l, Cards: []Card{}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lists: %w", err)
	}

	for i := range view.Lists {
		cards, err := s.ListCards(view.Lists[i].ID)
		if err != nil {
			return nil, err
		}
		view.Lists[i].Cards = cards
	}
	return view, nil
}

// ListCards returns a list's active cards in position order. created_at
// breaks ties so the sequence stays stable even if positions degrade after
// archival.
func (s *BoardService) ListCards(listID string) ([]Card, error) {
	rows, err := s.db.Query(`
		SELECT id, list_id, board_id, title, description, position, archived, created_at
		FROM cards WHERE list_id = ? AND archived = 0
		ORDER BY position ASC, created_at ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.ListID, &c.BoardID, &c.Title, &c.Description,
			&c.Position, &c.Archived, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	return cards, nil
}

// GetCard returns a card whether archived or not.
func (s *BoardService) GetCard(cardID string) (*Card, error) {
	row := s.db.QueryRow(`
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

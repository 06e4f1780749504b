package database

import (
	"database/sql"
	"testing"
)

// fixture wires the three services against a fresh in-memory database.
type fixture struct {
	db        *sql.DB
	boards    *BoardService
	positions *PositionService
	workflow  *WorkflowService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &fixture{
		db:        db,
		boards:    NewBoardService(db),
		positions: NewPositionService(db),
		workflow:  NewWorkflowService(db),
	}
}

func (f *fixture) mustBoard(t *testing.T, title string) *Board {
	t.Helper()
	b, err := f.boards.CreateBoard(title)
	if err != nil {
		t.Fatalf("CreateBoard(%q): %v", title, err)
	}
	return b
}

func (f *fixture) mustList(t *testing.T, boardID, title string) *List {
	t.Helper()
	l, err := f.boards.CreateList(boardID, title)
	if err != nil {
		t.Fatalf("CreateList(%q): %v", title, err)
	}
	return l
}

func (f *fixture) mustCard(t *testing.T, listID, title string) *Card {
	t.Helper()
	c, err := f.positions.CreateCard(listID, title, "")
	if err != nil {
		t.Fatalf("CreateCard(%q): %v", title, err)
	}
	return c
}

// activeTitles returns the titles of a list's active cards in served order.
func (f *fixture) activeTitles(t *testing.T, listID string) []string {
	t.Helper()
	cards, err := f.boards.ListCards(listID)
	if err != nil {
		t.Fatalf("ListCards(%s): %v", listID, err)
	}
	titles := make([]string, len(cards))
	for i, c := range cards {
		titles[i] = c.Title
	}
	return titles
}

// rawCard reads a card's row directly, archived or not.
func (f *fixture) rawCard(t *testing.T, cardID string) *Card {
	t.Helper()
	c, err := f.boards.GetCard(cardID)
	if err != nil {
		t.Fatalf("GetCard(%s): %v", cardID, err)
	}
	return c
}

// assertDenseList fails unless the list's active card positions are exactly
// {0..n-1}.
func (f *fixture) assertDenseList(t *testing.T, listID string) {
	t.Helper()
	cards, err := f.boards.ListCards(listID)
	if err != nil {
		t.Fatalf("ListCards(%s): %v", listID, err)
	}
	for i, c := range cards {
		if c.Position != i {
			t.Fatalf("list %s positions not dense: card %q at position %d, want %d",
				listID, c.Title, c.Position, i)
		}
	}
}

func assertSequence(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", got, want)
		}
	}
}

package database

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// --- MoveCard within a list ---

func TestMoveCard_WithinList(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "Backlog")
	f.mustCard(t, list.ID, "A")
	f.mustCard(t, list.ID, "B")
	f.mustCard(t, list.ID, "C")
	d := f.mustCard(t, list.ID, "D")

	// Move D (pos 3) to pos 1: A stays, B and C shift down.
	if err := f.positions.MoveCard(d.ID, list.ID, list.ID, 1); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"A", "D", "B", "C"})
	f.assertDenseList(t, list.ID)
}

func TestMoveCard_WithinList_SameSlotIsNoop(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "Backlog")
	f.mustCard(t, list.ID, "A")
	b := f.mustCard(t, list.ID, "B")
	f.mustCard(t, list.ID, "C")

	if err := f.positions.MoveCard(b.ID, list.ID, list.ID, 1); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"A", "B", "C"})
	if got := f.rawCard(t, b.ID).Position; got != 1 {
		t.Errorf("B position = %d, want 1", got)
	}
}

func TestMoveCard_WithinList_ClampsTarget(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "Backlog")
	a := f.mustCard(t, list.ID, "A")
	f.mustCard(t, list.ID, "B")
	f.mustCard(t, list.ID, "C")

	// Far past the end clamps to the tail.
	if err := f.positions.MoveCard(a.ID, list.ID, list.ID, 99); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"B", "C", "A"})

	// Negative clamps to the head.
	if err := f.positions.MoveCard(a.ID, list.ID, list.ID, -4); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"A", "B", "C"})
	f.assertDenseList(t, list.ID)
}

// --- MoveCard across lists ---

func TestMoveCard_AcrossLists(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	l2 := f.mustList(t, board.ID, "L2")
	f.mustCard(t, l1.ID, "A")
	b := f.mustCard(t, l1.ID, "B")
	f.mustCard(t, l2.ID, "C")

	if err := f.positions.MoveCard(b.ID, l1.ID, l2.ID, 0); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	assertSequence(t, f.activeTitles(t, l1.ID), []string{"A"})
	assertSequence(t, f.activeTitles(t, l2.ID), []string{"B", "C"})
	f.assertDenseList(t, l1.ID)
	f.assertDenseList(t, l2.ID)

	moved := f.rawCard(t, b.ID)
	if moved.ListID != l2.ID || moved.Position != 0 {
		t.Errorf("B = (list %s, pos %d), want (list %s, pos 0)", moved.ListID, moved.Position, l2.ID)
	}
}

func TestMoveCard_AcrossLists_RoundTrip(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	l2 := f.mustList(t, board.ID, "L2")
	f.mustCard(t, l1.ID, "A")
	b := f.mustCard(t, l1.ID, "B")
	f.mustCard(t, l1.ID, "C")
	f.mustCard(t, l2.ID, "X")

	if err := f.positions.MoveCard(b.ID, l1.ID, l2.ID, 1); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if err := f.positions.MoveCard(b.ID, l2.ID, l1.ID, 1); err != nil {
		t.Fatalf("MoveCard back: %v", err)
	}
	assertSequence(t, f.activeTitles(t, l1.ID), []string{"A", "B", "C"})
	assertSequence(t, f.activeTitles(t, l2.ID), []string{"X"})
}

func TestMoveCard_AcrossLists_ClampsToAppend(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	l2 := f.mustList(t, board.ID, "L2")
	a := f.mustCard(t, l1.ID, "A")
	f.mustCard(t, l2.ID, "X")
	f.mustCard(t, l2.ID, "Y")

	if err := f.positions.MoveCard(a.ID, l1.ID, l2.ID, 42); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	assertSequence(t, f.activeTitles(t, l2.ID), []string{"X", "Y", "A"})
}

func TestMoveCard_UnknownCard(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "L")

	err := f.positions.MoveCard(uuid.NewString(), list.ID, list.ID, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMoveCard_WrongSourceList(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	l2 := f.mustList(t, board.ID, "L2")
	a := f.mustCard(t, l1.ID, "A")

	err := f.positions.MoveCard(a.ID, l2.ID, l1.ID, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMoveCard_UnknownDestinationList(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	a := f.mustCard(t, l1.ID, "A")

	err := f.positions.MoveCard(a.ID, l1.ID, uuid.NewString(), 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	// Source list untouched after the rollback.
	assertSequence(t, f.activeTitles(t, l1.ID), []string{"A"})
}

// --- ReorderLists ---

func TestReorderLists(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	l2 := f.mustList(t, board.ID, "L2")
	l3 := f.mustList(t, board.ID, "L3")

	if err := f.positions.ReorderLists(board.ID, []string{l3.ID, l1.ID, l2.ID}); err != nil {
		t.Fatalf("ReorderLists: %v", err)
	}

	view, err := f.boards.GetBoard(board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	want := []string{"L3", "L1", "L2"}
	for i, lv := range view.Lists {
		if lv.Title != want[i] || lv.Position != i {
			t.Fatalf("lists[%d] = (%s, %d), want (%s, %d)", i, lv.Title, lv.Position, want[i], i)
		}
	}
}

func TestReorderLists_EmptyIDs(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	f.mustList(t, board.ID, "L1")

	err := f.positions.ReorderLists(board.ID, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestReorderLists_RejectsForeignAndMissingIDs(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	l1 := f.mustList(t, board.ID, "L1")
	l2 := f.mustList(t, board.ID, "L2")

	var ve *ValidationError

	// Foreign id in place of a real one.
	err := f.positions.ReorderLists(board.ID, []string{l1.ID, uuid.NewString()})
	if !errors.As(err, &ve) {
		t.Errorf("foreign id: err = %v, want ValidationError", err)
	}

	// Too few ids.
	err = f.positions.ReorderLists(board.ID, []string{l1.ID})
	if !errors.As(err, &ve) {
		t.Errorf("missing id: err = %v, want ValidationError", err)
	}

	// Duplicate id.
	err = f.positions.ReorderLists(board.ID, []string{l1.ID, l1.ID})
	if !errors.As(err, &ve) {
		t.Errorf("duplicate id: err = %v, want ValidationError", err)
	}

	// Nothing was written.
	view, err := f.boards.GetBoard(board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if view.Lists[0].ID != l1.ID || view.Lists[1].ID != l2.ID {
		t.Errorf("list order changed by rejected reorder")
	}
}

func TestReorderLists_UnknownBoard(t *testing.T) {
	f := newFixture(t)
	err := f.positions.ReorderLists(uuid.NewString(), []string{"x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- CreateCard ---

func TestCreateCard_AppendsAtEnd(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "L")

	a := f.mustCard(t, list.ID, "A")
	b := f.mustCard(t, list.ID, "B")
	if a.Position != 0 || b.Position != 1 {
		t.Errorf("positions = %d, %d, want 0, 1", a.Position, b.Position)
	}
	f.assertDenseList(t, list.ID)
}

func TestCreateCard_EmptyTitle(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "L")

	_, err := f.positions.CreateCard(list.ID, "  ", "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestCreateCard_UnknownList(t *testing.T) {
	f := newFixture(t)
	_, err := f.positions.CreateCard(uuid.NewString(), "A", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- SetArchived ---

func TestSetArchived_NoCompaction(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "L")
	x := f.mustCard(t, list.ID, "X")
	a := f.mustCard(t, list.ID, "A")
	y := f.mustCard(t, list.ID, "Y")

	// Archive A (position 1): X and Y keep their positions untouched.
	if err := f.positions.SetArchived(a.ID, true); err != nil {
		t.Fatalf("SetArchived: %v", err)
	}
	if got := f.rawCard(t, x.ID).Position; got != 0 {
		t.Errorf("X position = %d, want 0", got)
	}
	if got := f.rawCard(t, y.ID).Position; got != 2 {
		t.Errorf("Y position = %d, want 2 (no compaction)", got)
	}
	if got := f.rawCard(t, a.ID); !got.Archived || got.Position != 1 {
		t.Errorf("A = (archived %v, pos %d), want stale (true, 1)", got.Archived, got.Position)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"X", "Y"})

	// A new card lands at position 2 (count of active cards). That may
	// collide numerically with an archived card's stale position, which is
	// fine: archived cards are outside the active ordering.
	n := f.mustCard(t, list.ID, "N")
	if n.Position != 2 {
		t.Errorf("new card position = %d, want 2", n.Position)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"X", "Y", "N"})
}

func TestSetArchived_RestoreAppendsAtTail(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "L")
	a := f.mustCard(t, list.ID, "A")
	f.mustCard(t, list.ID, "B")
	f.mustCard(t, list.ID, "C")

	if err := f.positions.SetArchived(a.ID, true); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := f.positions.SetArchived(a.ID, false); err != nil {
		t.Fatalf("restore: %v", err)
	}

	restored := f.rawCard(t, a.ID)
	if restored.Archived {
		t.Fatalf("card still archived")
	}
	// Back at the tail, not its original slot.
	if restored.Position != 2 {
		t.Errorf("restored position = %d, want 2", restored.Position)
	}
	assertSequence(t, f.activeTitles(t, list.ID), []string{"B", "C", "A"})
}

func TestSetArchived_Idempotent(t *testing.T) {
	f := newFixture(t)
	board := f.mustBoard(t, "Board")
	list := f.mustList(t, board.ID, "L")
	a := f.mustCard(t, list.ID, "A")
	b := f.mustCard(t, list.ID, "B")

	if err := f.positions.SetArchived(a.ID, true); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := f.positions.SetArchived(a.ID, true); err != nil {
		t.Fatalf("archive again: %v", err)
	}
	if err := f.positions.SetArchived(b.ID, false); err != nil {
		t.Fatalf("unarchive active card: %v", err)
	}
	if got := f.rawCard(t, b.ID).Position; got != 1 {
		t.Errorf("B position = %d, want 1 (untouched)", got)
	}
}

func TestSetArchived_UnknownCard(t *testing.T) {
	f := newFixture(t)
	err := f.positions.SetArchived(uuid.NewString(), true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

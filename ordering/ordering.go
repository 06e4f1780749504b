// Package ordering computes the position updates needed to keep a
// container's items densely ordered (positions exactly {0..n-1}) across
// inserts, removals, and moves.
//
// The functions here are pure: given the current item count and a target,
// they return a clamped target plus the bounded range shifts the caller must
// apply. They never touch storage; the database layer executes each plan as
// range UPDATEs inside a single transaction.
package ordering

// Shift describes one bounded position adjustment: every active item whose
// position falls in [Lo, Hi] (inclusive) moves by Delta.
type Shift struct {
	Lo    int
	Hi    int
	Delta int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InsertAt plans placing a new item into a container currently holding count
// items. The requested position is clamped to [0, count], so out-of-range
// values append or prepend rather than fail. The returned shifts make room;
// the caller then assigns the clamped position to the new item.
func InsertAt(count, pos int) (int, []Shift) {
	pos = clamp(pos, 0, count)
	if pos == count {
		return pos, nil
	}
	return pos, []Shift{{Lo: pos, Hi: count - 1, Delta: 1}}
}

// RemoveAt plans taking the item at pos out of a container of count items,
// closing the gap it leaves. It must be applied in the same transaction as
// the physical delete or the cross-container departure.
func RemoveAt(count, pos int) []Shift {
	if pos >= count-1 {
		return nil
	}
	return []Shift{{Lo: pos + 1, Hi: count - 1, Delta: -1}}
}

// MoveWithin plans relocating the item at from to the requested position
// inside the same container of count items. The target is clamped to
// [0, count-1]. Only the positions strictly between the two endpoints shift,
// so the cost is O(|to-from|), not O(count). A move to the item's own slot
// returns no shifts.
func MoveWithin(count, from, to int) (int, []Shift) {
	to = clamp(to, 0, count-1)
	switch {
	case to == from:
		return to, nil
	case to > from:
		return to, []Shift{{Lo: from + 1, Hi: to, Delta: -1}}
	default:
		return to, []Shift{{Lo: to, Hi: from - 1, Delta: 1}}
	}
}

// MoveBetween plans relocating an item at from in a source container of
// srcCount items to position to in a destination container of dstCount
// items. It composes RemoveAt on the source with InsertAt on the
// destination; the caller applies both shift sets and the final placement
// atomically.
func MoveBetween(srcCount, from, dstCount, to int) (int, []Shift, []Shift) {
	srcShifts := RemoveAt(srcCount, from)
	to, dstShifts := InsertAt(dstCount, to)
	return to, srcShifts, dstShifts
}

package draft

import "fmt"

// Turn identifies a position in the draft order.
type Turn struct {
	Slot       int // whose turn, 1..memberCount
	Round      int // 1-based
	PickNumber int // overall, 1-based, monotonically increasing
}

// NextTurn computes the turn following cur for a league of memberCount
// members. Order is plain round-robin 1..N repeating; the round increments
// on wrap and the pick number increments unconditionally.
//
// This is deliberately not snake order: direction never reverses between
// rounds.
func NextTurn(cur Turn, memberCount int) (Turn, error) {
	if memberCount <= 0 {
		return Turn{}, fmt.Errorf("member count must be positive, got %d", memberCount)
	}

	next := cur
	if cur.Slot >= memberCount {
		next.Slot = 1
		next.Round = cur.Round + 1
	} else {
		next.Slot = cur.Slot + 1
	}
	next.PickNumber = cur.PickNumber + 1
	return next, nil
}

package sim

import "github.com/kdtran/lobsim/internal/book"

// liveIDs is a registry of currently-resting order ids supporting O(1)
// uniform sampling and O(1) removal, used to pick a cancel target.
// pos maps an id to its slot in ids; removal swaps the victim with the
// last element before shrinking, so no slot ever needs to shift.
type liveIDs struct {
	ids []book.OrderId
	pos map[book.OrderId]int
}

func newLiveIDs() *liveIDs {
	return &liveIDs{pos: make(map[book.OrderId]int)}
}

func (l *liveIDs) add(id book.OrderId) {
	if _, ok := l.pos[id]; ok {
		return
	}
	l.pos[id] = len(l.ids)
	l.ids = append(l.ids, id)
}

func (l *liveIDs) remove(id book.OrderId) {
	i, ok := l.pos[id]
	if !ok {
		return
	}
	last := len(l.ids) - 1
	if i != last {
		l.ids[i] = l.ids[last]
		l.pos[l.ids[i]] = i
	}
	l.ids = l.ids[:last]
	delete(l.pos, id)
}

func (l *liveIDs) len() int { return len(l.ids) }

// sample returns a uniformly random live id. Callers must check len()
// > 0 first.
func (l *liveIDs) sample(r *rng) book.OrderId {
	return l.ids[r.intn(len(l.ids))]
}

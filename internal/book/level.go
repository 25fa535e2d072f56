package book

import "github.com/gammazero/deque"

// LevelQueue is the FIFO of resting orders at one price level. Earlier
// insertions sit nearer the front (time priority). It wraps
// gammazero/deque for O(1) front-pop / back-push, and additionally
// supports O(n) positional erase for Cancel of an order that isn't at
// the front of the level.
type LevelQueue struct {
	d deque.Deque[*Order]
}

// Len returns the number of resting orders at this level.
func (q *LevelQueue) Len() int { return q.d.Len() }

// Front returns the order nearest the front (next to trade), or nil
// if the level is empty.
func (q *LevelQueue) Front() *Order {
	if q.d.Len() == 0 {
		return nil
	}
	return q.d.Front()
}

// PushBack appends an order to the back of the level and returns its
// resulting index (Len()-1 after the append).
func (q *LevelQueue) PushBack(o *Order) int {
	q.d.PushBack(o)
	return q.d.Len() - 1
}

// PopFront removes and returns the front order.
func (q *LevelQueue) PopFront() *Order {
	return q.d.PopFront()
}

// At returns the order at position pos.
func (q *LevelQueue) At(pos int) *Order {
	return q.d.At(pos)
}

// RemoveAt erases the order at position pos, shifting every survivor
// at a later position down by one. Returns the removed order.
func (q *LevelQueue) RemoveAt(pos int) *Order {
	removed := q.d.At(pos)
	for p := pos; p < q.d.Len()-1; p++ {
		q.d.Set(p, q.d.At(p+1))
	}
	q.d.PopBack()
	return removed
}

package book

import "container/heap"

// priceHeap is a binary heap of distinct price keys, ordered by a
// caller-supplied comparator (descending for bids, ascending for
// asks). Pushing a price already present is a no-op, mirroring the
// teacher's PriceHeap membership guard — a price key must appear in
// the price map exactly as long as its level is non-empty.
type priceHeap struct {
	prices []Price
	less   func(a, b Price) bool
	member map[Price]bool
}

func newPriceHeap(less func(a, b Price) bool) *priceHeap {
	return &priceHeap{less: less, member: make(map[Price]bool)}
}

func (h priceHeap) Len() int            { return len(h.prices) }
func (h priceHeap) Less(i, j int) bool  { return h.less(h.prices[i], h.prices[j]) }
func (h priceHeap) Swap(i, j int)       { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }
func (h *priceHeap) Push(x interface{}) { h.prices = append(h.prices, x.(Price)) }
func (h *priceHeap) Pop() interface{} {
	n := len(h.prices)
	px := h.prices[n-1]
	h.prices = h.prices[:n-1]
	return px
}

// Add pushes px onto the heap if it isn't already present.
func (h *priceHeap) Add(px Price) {
	if h.member[px] {
		return
	}
	h.member[px] = true
	heap.Push(h, px)
}

// Remove drops px from the heap's membership; the stale heap slot is
// dropped lazily the next time it would be exposed via Peek.
func (h *priceHeap) Remove(px Price) {
	delete(h.member, px)
}

// Peek returns the best (per the comparator) live price, discarding
// any stale entries encountered along the way, or (0, false) if empty.
func (h *priceHeap) Peek() (Price, bool) {
	for h.Len() > 0 {
		top := h.prices[0]
		if h.member[top] {
			return top, true
		}
		heap.Pop(h)
	}
	return 0, false
}

// PopBest removes and returns the best live price.
func (h *priceHeap) PopBest() (Price, bool) {
	px, ok := h.Peek()
	if !ok {
		return 0, false
	}
	h.Remove(px)
	heap.Pop(h)
	return px, true
}

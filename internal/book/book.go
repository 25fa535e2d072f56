package book

import "sort"

// indexEntry records exactly where a resting order lives: which side,
// which price level, and its position within that level's queue.
type indexEntry struct {
	side Side
	px   Price
	pos  int
}

// OrderBook maintains bids and asks for one symbol as price-ordered
// FIFO level queues, plus an id index giving O(1) lookup of an order's
// location for cancellation (the cancel itself re-indexes the rest of
// the level, O(depth)).
type OrderBook struct {
	bids  map[Price]*LevelQueue
	asks  map[Price]*LevelQueue
	bidPx *priceHeap
	askPx *priceHeap
	index map[OrderId]indexEntry
}

// New builds an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids:  make(map[Price]*LevelQueue),
		asks:  make(map[Price]*LevelQueue),
		bidPx: newPriceHeap(func(a, b Price) bool { return a > b }), // max-heap
		askPx: newPriceHeap(func(a, b Price) bool { return a < b }), // min-heap
		index: make(map[OrderId]indexEntry),
	}
}

func (ob *OrderBook) levels(s Side) map[Price]*LevelQueue {
	if s == Buy {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) priceHeapFor(s Side) *priceHeap {
	if s == Buy {
		return ob.bidPx
	}
	return ob.askPx
}

// BestBid returns the highest bid price, or 0 if there are no bids.
func (ob *OrderBook) BestBid() Price {
	px, ok := ob.bidPx.Peek()
	if !ok {
		return 0
	}
	return px
}

// BestAsk returns the lowest ask price, or 0 if there are no asks.
func (ob *OrderBook) BestAsk() Price {
	px, ok := ob.askPx.Peek()
	if !ok {
		return 0
	}
	return px
}

// Mid returns the integer midpoint of best bid and best ask, or 0 if
// either side is empty.
func (ob *OrderBook) Mid() Price {
	bb, ba := ob.BestBid(), ob.BestAsk()
	if bb == 0 || ba == 0 {
		return 0
	}
	return (bb + ba) / 2
}

// AddLimit inserts a fully specified limit order at the back of its
// price level. It fails with *InvalidArgumentError if o.Type isn't
// Limit, the id is already resting, qty <= 0, or price <= 0.
func (ob *OrderBook) AddLimit(o Order) error {
	if o.Type != Limit {
		return invalidArg("AddLimit", "order type must be Limit")
	}
	if _, dup := ob.index[o.ID]; dup {
		return invalidArg("AddLimit", "duplicate OrderId")
	}
	if o.Qty <= 0 {
		return invalidArg("AddLimit", "qty must be positive")
	}
	if o.LimitPrice <= 0 {
		return invalidArg("AddLimit", "limit_price must be positive")
	}

	levels := ob.levels(o.Side)
	q, ok := levels[o.LimitPrice]
	if !ok {
		q = &LevelQueue{}
		levels[o.LimitPrice] = q
		ob.priceHeapFor(o.Side).Add(o.LimitPrice)
	}
	order := o
	pos := q.PushBack(&order)
	ob.index[o.ID] = indexEntry{side: o.Side, px: o.LimitPrice, pos: pos}
	return nil
}

// Cancel removes order id if present; otherwise it is a silent no-op.
// Cancelling the same id twice is not an error.
func (ob *OrderBook) Cancel(id OrderId) {
	entry, ok := ob.index[id]
	if !ok {
		return
	}

	levels := ob.levels(entry.side)
	q, ok := levels[entry.px]
	if !ok {
		delete(ob.index, id)
		return
	}
	if entry.pos < 0 || entry.pos >= q.Len() {
		delete(ob.index, id)
		return
	}

	q.RemoveAt(entry.pos)
	for p := entry.pos; p < q.Len(); p++ {
		survivor := q.At(p)
		se := ob.index[survivor.ID]
		se.pos = p
		ob.index[survivor.ID] = se
	}

	if q.Len() == 0 {
		delete(levels, entry.px)
		ob.priceHeapFor(entry.side).Remove(entry.px)
	}
	delete(ob.index, id)
}

// RemoveFilledFront pops a fully-consumed maker off the front of q and
// re-indexes the survivors, whose positions all shift down by one.
// Exported for use by the matching engine, which is the only caller
// that ever removes a resting order by exhausting its qty rather than
// by explicit Cancel.
func (ob *OrderBook) RemoveFilledFront(side Side, px Price, q *LevelQueue) {
	maker := q.PopFront()
	delete(ob.index, maker.ID)
	for p := 0; p < q.Len(); p++ {
		survivor := q.At(p)
		se := ob.index[survivor.ID]
		se.pos = p
		ob.index[survivor.ID] = se
	}
	if q.Len() == 0 {
		delete(ob.levels(side), px)
		ob.priceHeapFor(side).Remove(px)
	}
}

// LevelAt exposes the FIFO queue at px on side s, or nil if the level
// doesn't exist. Exported for use by the matching engine.
func (ob *OrderBook) LevelAt(s Side, px Price) *LevelQueue {
	return ob.levels(s)[px]
}

// Best returns the best resting price on side s, generalizing BestBid
// / BestAsk for the matching engine's symmetric buy/sell algorithm.
func (ob *OrderBook) Best(s Side) (Price, bool) {
	return ob.priceHeapFor(s).Peek()
}

// QtyOf returns the remaining qty of a still-resting order and true,
// or (0, false) if id is unknown (fully filled or cancelled).
func (ob *OrderBook) QtyOf(id OrderId) (Qty, bool) {
	e, ok := ob.index[id]
	if !ok {
		return 0, false
	}
	q := ob.levels(e.side)[e.px]
	if q == nil || e.pos < 0 || e.pos >= q.Len() {
		return 0, false
	}
	return q.At(e.pos).Qty, true
}

// Empty reports whether side s has no resting orders.
func (ob *OrderBook) Empty(s Side) bool {
	_, ok := ob.priceHeapFor(s).Peek()
	return !ok
}

// PriceLevels returns every resting price on side s, best price first
// (highest for Buy, lowest for Sell). It is O(n log n) and intended
// for diagnostics and pretty-printing, not the hot matching path.
func (ob *OrderBook) PriceLevels(s Side) []Price {
	levels := ob.levels(s)
	out := make([]Price, 0, len(levels))
	for px := range levels {
		out = append(out, px)
	}
	less := ob.priceHeapFor(s).less
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SelfCheck performs a full bidirectional consistency scan between the
// level queues and the id index. It should never fail if invariants
// hold; it exists purely as an observability hook.
func (ob *OrderBook) SelfCheck() bool {
	checkSide := func(levels map[Price]*LevelQueue, side Side) bool {
		for px, q := range levels {
			if px <= 0 {
				return false
			}
			if q.Len() == 0 {
				return false
			}
			for p := 0; p < q.Len(); p++ {
				o := q.At(p)
				if o.Qty <= 0 || o.LimitPrice < 1 {
					return false
				}
				e, ok := ob.index[o.ID]
				if !ok || e.side != side || e.px != px || e.pos != p {
					return false
				}
			}
		}
		return true
	}

	if !checkSide(ob.bids, Buy) {
		return false
	}
	if !checkSide(ob.asks, Sell) {
		return false
	}

	for id, e := range ob.index {
		levels := ob.levels(e.side)
		q, ok := levels[e.px]
		if !ok || e.pos < 0 || e.pos >= q.Len() {
			return false
		}
		if q.At(e.pos).ID != id {
			return false
		}
	}

	if bb, ba := ob.BestBid(), ob.BestAsk(); bb != 0 && ba != 0 && bb >= ba {
		return false
	}

	return true
}

// Package match implements the price-time-priority matching algorithm
// on top of an internal/book.OrderBook: market orders, marketable
// limit orders, partial fills, and residual posting.
package match

import (
	"github.com/kdtran/lobsim/internal/book"
)

// Fill records one maker/taker execution. Execution price is always
// the maker's posted price.
type Fill struct {
	TakerID   book.OrderId
	MakerID   book.OrderId
	TakerSide book.Side
	Price     book.Price
	Qty       book.Qty
	Ts        book.TimePoint
}

// Engine submits orders against one order book, assigning each a
// monotonically increasing id starting at 1. Ids already resting in
// the book (orders added to it directly) are skipped.
type Engine struct {
	Book   *book.OrderBook
	nextID book.OrderId
}

// New builds a matching engine over ob with taker ids starting at 1.
func New(ob *book.OrderBook) *Engine {
	return &Engine{Book: ob, nextID: 1}
}

func (e *Engine) allocID() book.OrderId {
	for {
		if _, resting := e.Book.QtyOf(e.nextID); !resting {
			break
		}
		e.nextID++
	}
	id := e.nextID
	e.nextID++
	return id
}

// SubmitMarket consumes liquidity from the opposite side until qty is
// exhausted or that side runs dry; any residual is discarded. Returns
// the assigned taker id, even when nothing could be filled.
func (e *Engine) SubmitMarket(side book.Side, qty book.Qty, ts book.TimePoint, out *[]Fill) (book.OrderId, error) {
	if qty <= 0 {
		return 0, invalidArg("SubmitMarket", "qty must be positive")
	}
	id := e.allocID()
	remaining := qty
	e.match(id, side, &remaining, nil, ts, out)
	return id, nil
}

// SubmitLimit matches against the opposite side (gated by price), then
// posts any residual qty to the book under the assigned id. Returns
// the assigned taker id.
func (e *Engine) SubmitLimit(side book.Side, price book.Price, qty book.Qty, ts book.TimePoint, out *[]Fill) (book.OrderId, error) {
	if qty <= 0 {
		return 0, invalidArg("SubmitLimit", "qty must be positive")
	}
	if price <= 0 {
		return 0, invalidArg("SubmitLimit", "price must be positive")
	}
	id := e.allocID()
	remaining := qty
	e.match(id, side, &remaining, &price, ts, out)
	if remaining > 0 {
		o := book.Order{ID: id, Side: side, Type: book.Limit, LimitPrice: price, Qty: remaining, Ts: ts}
		// AddLimit cannot fail here: id is fresh, qty/price already validated.
		_ = e.Book.AddLimit(o)
	}
	return id, nil
}

// match consumes the opposite side of the book in price-time order.
// limitPx nil means "market" (no gate). remaining is decremented in
// place; fills are appended to out in execution order.
func (e *Engine) match(takerID book.OrderId, side book.Side, remaining *book.Qty, limitPx *book.Price, ts book.TimePoint, out *[]Fill) {
	opp := opposite(side)

	for *remaining > 0 {
		lvlPx, ok := e.Book.Best(opp)
		if !ok {
			break
		}
		if limitPx != nil {
			if side == book.Buy && *limitPx < lvlPx {
				break
			}
			if side == book.Sell && *limitPx > lvlPx {
				break
			}
		}

		q := e.Book.LevelAt(opp, lvlPx)
		for *remaining > 0 && q.Len() > 0 {
			maker := q.Front()
			traded := min(*remaining, maker.Qty)

			*out = append(*out, Fill{
				TakerID:   takerID,
				MakerID:   maker.ID,
				TakerSide: side,
				Price:     lvlPx,
				Qty:       traded,
				Ts:        ts,
			})

			maker.Qty -= traded
			*remaining -= traded

			if maker.Qty == 0 {
				e.Book.RemoveFilledFront(opp, lvlPx, q)
			}
		}
	}
}

func opposite(s book.Side) book.Side {
	if s == book.Buy {
		return book.Sell
	}
	return book.Buy
}

func min(a, b book.Qty) book.Qty {
	if a < b {
		return a
	}
	return b
}

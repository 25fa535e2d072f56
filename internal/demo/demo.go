// Package demo runs a fixed sanity-check script against a fresh book:
// seed it by hand, cancel a few orders, exercise the matching engine
// against a crossing limit and a market order, and self-check at
// several checkpoints along the way.
package demo

import (
	"fmt"
	"io"

	"github.com/kdtran/lobsim/internal/book"
	"github.com/kdtran/lobsim/internal/logging"
	"github.com/kdtran/lobsim/internal/match"
)

func mkOrder(id book.OrderId, side book.Side, px book.Price, qty book.Qty, ts book.TimePoint) book.Order {
	return book.Order{ID: id, Side: side, Type: book.Limit, LimitPrice: px, Qty: qty, Ts: ts}
}

func dumpSide(w io.Writer, name string, ob *book.OrderBook, side book.Side) {
	fmt.Fprintf(w, "%s:\n", name)
	for _, px := range ob.PriceLevels(side) {
		q := ob.LevelAt(side, px)
		fmt.Fprintf(w, "  %d : [", px)
		for i := 0; i < q.Len(); i++ {
			o := q.At(i)
			fmt.Fprintf(w, "%d:%d", o.ID, o.Qty)
			if i+1 < q.Len() {
				fmt.Fprint(w, ", ")
			}
		}
		fmt.Fprintln(w, "]")
	}
}

func dumpBook(w io.Writer, ob *book.OrderBook) {
	fmt.Fprintln(w, "================ BOOK ================")
	dumpSide(w, "ASKS (low→high)", ob, book.Sell)
	dumpSide(w, "BIDS (high→low)", ob, book.Buy)
	fmt.Fprintf(w, "best_bid=%d best_ask=%d mid=%d\n", ob.BestBid(), ob.BestAsk(), ob.Mid())
	fmt.Fprintln(w, "======================================")
}

func dumpFills(w io.Writer, fills []match.Fill) {
	if len(fills) == 0 {
		fmt.Fprintln(w, "(no trades)")
		return
	}
	for _, f := range fills {
		sideCode := "B"
		if f.TakerSide == book.Sell {
			sideCode = "S"
		}
		fmt.Fprintf(w, "TRADE taker=%d maker=%d side=%s px=%d qty=%d t=%.2f\n",
			f.TakerID, f.MakerID, sideCode, f.Price, f.Qty, float64(f.Ts))
	}
}

// Run executes the fixed sanity-check script against a fresh book,
// writing its narration to w and returning an error the moment
// SelfCheck fails at any of its checkpoints.
func Run(w io.Writer, log *logging.Logger) error {
	ob := book.New()

	if err := ob.AddLimit(mkOrder(101, book.Buy, 100, 5, 0.10)); err != nil {
		return err
	}
	if err := ob.AddLimit(mkOrder(102, book.Buy, 100, 3, 0.20)); err != nil {
		return err
	}
	if err := ob.AddLimit(mkOrder(103, book.Buy, 99, 7, 0.30)); err != nil {
		return err
	}
	if err := ob.AddLimit(mkOrder(201, book.Sell, 102, 4, 0.15)); err != nil {
		return err
	}
	if err := ob.AddLimit(mkOrder(202, book.Sell, 103, 6, 0.25)); err != nil {
		return err
	}
	if err := ob.AddLimit(mkOrder(203, book.Sell, 102, 2, 0.35)); err != nil {
		return err
	}

	if !ob.SelfCheck() {
		log.Error("self-check failed after adds")
		return fmt.Errorf("demo: self-check failed after adds")
	}
	fmt.Fprintln(w, "After adds:")
	dumpBook(w, ob)

	ob.Cancel(102)
	ob.Cancel(201)
	if !ob.SelfCheck() {
		log.Error("self-check failed after cancels")
		return fmt.Errorf("demo: self-check failed after cancels")
	}
	fmt.Fprintln(w, "\nAfter cancels (102, 201):")
	dumpBook(w, ob)

	ob.Cancel(999) // no-op: unknown id
	if !ob.SelfCheck() {
		log.Error("self-check failed after cancel(999)")
		return fmt.Errorf("demo: self-check failed after cancel(999)")
	}
	fmt.Fprintln(w, "\nAfter cancel(999) (no-op):")
	dumpBook(w, ob)

	if err := ob.AddLimit(mkOrder(101, book.Buy, 100, 1, 0.5)); err == nil {
		return fmt.Errorf("demo: expected duplicate id rejection")
	}

	ob.Cancel(424242) // no-op
	if !ob.SelfCheck() {
		return fmt.Errorf("demo: self-check failed after cancel(424242)")
	}

	if err := ob.AddLimit(mkOrder(300, book.Sell, 105, 2, 1.0)); err != nil {
		return err
	}
	ob.Cancel(300)
	if ob.LevelAt(book.Sell, 105) != nil {
		return fmt.Errorf("demo: level not erased after last cancel")
	}

	fmt.Fprintln(w, "\n===== Matching engine demo =====")
	me := match.New(ob)

	var id book.OrderId = 1
	if err := ob.AddLimit(mkOrder(id, book.Sell, 101, 5, 0.1)); err != nil {
		return err
	}
	id++
	if err := ob.AddLimit(mkOrder(id, book.Sell, 102, 3, 0.2)); err != nil {
		return err
	}
	id++
	if err := ob.AddLimit(mkOrder(id, book.Buy, 99, 4, 0.3)); err != nil {
		return err
	}
	id++
	if err := ob.AddLimit(mkOrder(id, book.Buy, 100, 6, 0.4)); err != nil {
		return err
	}

	fmt.Fprintln(w, "Initial book:")
	dumpBook(w, ob)

	var fills1 []match.Fill
	if _, err := me.SubmitLimit(book.Buy, 102, 8, 1.0, &fills1); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nAfter BUY limit @102 x8:")
	dumpFills(w, fills1)
	dumpBook(w, ob)

	var fills2 []match.Fill
	if _, err := me.SubmitMarket(book.Sell, 7, 2.0, &fills2); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nAfter MARKET SELL x7:")
	dumpFills(w, fills2)
	dumpBook(w, ob)

	if !ob.SelfCheck() {
		return fmt.Errorf("demo: self-check failed after matching demo")
	}
	return nil
}

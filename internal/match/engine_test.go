package match

import (
	"testing"

	"github.com/kdtran/lobsim/internal/book"
)

func TestMarketOrderConsumesFIFOAcrossLevels(t *testing.T) {
	ob := book.New()
	e := New(ob)
	ob.AddLimit(book.Order{ID: 1, Side: book.Sell, Type: book.Limit, LimitPrice: 101, Qty: 5})
	ob.AddLimit(book.Order{ID: 2, Side: book.Sell, Type: book.Limit, LimitPrice: 102, Qty: 3})

	var fills []Fill
	if _, err := e.SubmitMarket(book.Buy, 7, 0, &fills); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if fills[0].MakerID != 1 || fills[0].Qty != 5 {
		t.Errorf("expected first fill to fully consume maker 1, got %+v", fills[0])
	}
	if fills[1].MakerID != 2 || fills[1].Qty != 2 {
		t.Errorf("expected second fill to partially consume maker 2, got %+v", fills[1])
	}
	if q, ok := ob.QtyOf(2); !ok || q != 1 {
		t.Errorf("expected maker 2 to have 1 unit left, got %d ok=%v", q, ok)
	}
}

func TestMarketOrderResidualIsDiscarded(t *testing.T) {
	ob := book.New()
	e := New(ob)
	ob.AddLimit(book.Order{ID: 1, Side: book.Sell, Type: book.Limit, LimitPrice: 100, Qty: 2})

	var fills []Fill
	if _, err := e.SubmitMarket(book.Buy, 10, 0, &fills); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fills) != 1 || fills[0].Qty != 2 {
		t.Fatalf("expected single fill of 2, got %+v", fills)
	}
	if !ob.Empty(book.Sell) {
		t.Fatalf("expected sell side to be drained")
	}
}

func TestLimitOrderGatedByPrice(t *testing.T) {
	ob := book.New()
	e := New(ob)
	ob.AddLimit(book.Order{ID: 1, Side: book.Sell, Type: book.Limit, LimitPrice: 105, Qty: 5})

	var fills []Fill
	id, err := e.SubmitLimit(book.Buy, 100, 3, 0, &fills)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fills) != 0 {
		t.Fatalf("expected no fills below the ask, got %+v", fills)
	}
	if q, ok := ob.QtyOf(id); !ok || q != 3 {
		t.Fatalf("expected residual to post, got %d ok=%v", q, ok)
	}
}

func TestCrossingLimitOrderFullyFillsAcrossLevels(t *testing.T) {
	ob := book.New()
	e := New(ob)
	ob.AddLimit(book.Order{ID: 1, Side: book.Sell, Type: book.Limit, LimitPrice: 101, Qty: 5})
	ob.AddLimit(book.Order{ID: 2, Side: book.Sell, Type: book.Limit, LimitPrice: 102, Qty: 3})

	var fills []Fill
	takerID, err := e.SubmitLimit(book.Buy, 102, 8, 1.0, &fills)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if q, ok := ob.QtyOf(takerID); ok {
		t.Errorf("expected taker to fully fill, but still has residual %d", q)
	}
}

func TestSubmitRejectsNonPositiveQty(t *testing.T) {
	ob := book.New()
	e := New(ob)
	var fills []Fill
	if _, err := e.SubmitMarket(book.Buy, 0, 0, &fills); err == nil {
		t.Fatalf("expected qty rejection")
	}
	if _, err := e.SubmitLimit(book.Buy, 100, 0, 0, &fills); err == nil {
		t.Fatalf("expected qty rejection")
	}
	if _, err := e.SubmitLimit(book.Buy, 0, 5, 0, &fills); err == nil {
		t.Fatalf("expected price rejection")
	}
}

func BenchmarkEngineSubmitLimit(b *testing.B) {
	ob := book.New()
	e := New(ob)
	for i := 0; i < 10000; i++ {
		ob.AddLimit(book.Order{ID: book.OrderId(i + 1000000), Side: book.Sell, Type: book.Limit, LimitPrice: book.Price(100 + i%5), Qty: 10})
	}

	b.ResetTimer()
	var fills []Fill
	for i := 0; i < b.N; i++ {
		fills = fills[:0]
		e.SubmitLimit(book.Buy, 101, 10, 0, &fills)
	}
}

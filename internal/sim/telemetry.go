package sim

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// offsetBucket classifies a limit order's absolute distance from mid
// (in ticks) at submission time into one of five reporting buckets.
type offsetBucket int

const (
	bucket0 offsetBucket = iota
	bucket1to2
	bucket3to5
	bucket6to10
	bucketOver10
	numBuckets
)

func bucketOf(k int64) offsetBucket {
	switch {
	case k == 0:
		return bucket0
	case k <= 2:
		return bucket1to2
	case k <= 5:
		return bucket3to5
	case k <= 10:
		return bucket6to10
	default:
		return bucketOver10
	}
}

func (b offsetBucket) label() string {
	switch b {
	case bucket0:
		return "0"
	case bucket1to2:
		return "1-2"
	case bucket3to5:
		return "3-5"
	case bucket6to10:
		return "6-10"
	default:
		return ">10"
	}
}

// fillStat accumulates how many limit orders submitted at a given
// offset bucket ever had any of their resting qty filled versus how
// many were ever submitted, forming a fill ratio.
type fillStat struct {
	submitted int64
	filled    int64
}

// telemetry accumulates every running statistic the end-of-run report
// prints: event/trade counters, VWAP slippage of market orders against
// the pre-trade mid, spread/mid sums for averaging, peak-mid drawdown,
// and per-bucket limit fill ratios.
type telemetry struct {
	events     int64
	trades     int64
	limitOrds  int64
	marketOrds int64
	cancelOrds int64

	sumSpread float64
	sumMid    float64
	midCount  int64
	volTraded int64

	peakMid   int64
	maxDrawdn int64

	// buy/sell market-order slippage against the pre-trade mid, kept
	// separate per side: buySlipSum accumulates (vwap-mid)*qty for buys,
	// sellSlipSum accumulates (mid-vwap)*qty for sells — both positive
	// when execution is worse than the pre-trade mid.
	buySlipSum  float64
	buySlipQty  float64
	sellSlipSum float64
	sellSlipQty float64

	buckets [numBuckets]fillStat
	// pendingBucket tracks the offset bucket a still-live limit order
	// was submitted into, so a later fill or cancel can credit it.
	pendingBucket map[uint64]offsetBucket

	// limitOffsetCount, limitOffsetAbsSum, and limitOffsetHist track the
	// raw distribution of limit-order offsets from mid at submission
	// time, updated only when both sides of the book are non-empty (the
	// same condition that gates a nonzero bucket).
	limitOffsetCount  int64
	limitOffsetAbsSum int64
	limitOffsetHist   [64]int64
}

func newTelemetry() *telemetry {
	return &telemetry{pendingBucket: make(map[uint64]offsetBucket)}
}

func (t *telemetry) recordEvent() { t.events++ }

func (t *telemetry) recordSnapshot(bestBid, bestAsk int64, haveBid, haveAsk bool) {
	if !haveBid || !haveAsk {
		return
	}
	mid := (bestBid + bestAsk) / 2
	t.sumSpread += float64(bestAsk - bestBid)
	t.sumMid += float64(mid)
	t.midCount++

	if mid > t.peakMid {
		t.peakMid = mid
	}
	dd := t.peakMid - mid
	if dd > t.maxDrawdn {
		t.maxDrawdn = dd
	}
}

// recordLimitSubmit tallies a limit order at submission time and
// returns the offset bucket it landed in. It does not, by itself,
// register the order for later fill credit — that only happens for
// orders that end up resting (see trackPendingBucket) — because an
// order that fully crosses at submission never rests and so can never
// later satisfy the "resting quantity was consumed" condition a fill
// credit requires.
func (t *telemetry) recordLimitSubmit(offsetTicks int64, bothSided bool) offsetBucket {
	t.limitOrds++
	b := bucketOf(offsetTicks)
	t.buckets[b].submitted++

	if bothSided {
		t.limitOffsetCount++
		t.limitOffsetAbsSum += offsetTicks
		if offsetTicks < int64(len(t.limitOffsetHist)) {
			t.limitOffsetHist[offsetTicks]++
		}
	}
	return b
}

// trackPendingBucket registers a resting order's offset bucket so a
// later fill or cancel can credit it. Must only be called for orders
// that actually rest after submission.
func (t *telemetry) trackPendingBucket(id uint64, b offsetBucket) {
	t.pendingBucket[id] = b
}

// recordLimitFilled credits a tracked resting order's bucket the first
// time any of its qty trades; later fills of the same order are not
// counted again.
func (t *telemetry) recordLimitFilled(id uint64) {
	if b, ok := t.pendingBucket[id]; ok {
		t.buckets[b].filled++
		delete(t.pendingBucket, id)
	}
}

func (t *telemetry) recordLimitRemoved(id uint64) {
	delete(t.pendingBucket, id)
}

func (t *telemetry) recordMarketSubmit() { t.marketOrds++ }
func (t *telemetry) recordCancel()       { t.cancelOrds++ }

func (t *telemetry) recordTrade(price, qty int64) {
	t.trades++
	t.volTraded += qty
}

// recordMarketSlippage credits one market order's fills against the
// mid observed immediately before it was submitted, tallying buy-side
// and sell-side slippage separately: buys paying above mid and sells
// receiving below mid both accumulate a positive contribution.
func (t *telemetry) recordMarketSlippage(preTradeMid float64, isBuy bool, notional, qty float64) {
	if qty <= 0 {
		return
	}
	vwap := notional / qty
	if isBuy {
		t.buySlipSum += (vwap - preTradeMid) * qty
		t.buySlipQty += qty
	} else {
		t.sellSlipSum += (preTradeMid - vwap) * qty
		t.sellSlipQty += qty
	}
}

// Report renders the end-of-run summary, using shopspring/decimal for
// the ratio and average fields so results print with a stable,
// non-scientific number of digits regardless of how the underlying
// floats round.
func (t *telemetry) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, "events=%d trades=%d limit=%d market=%d cancel=%d vol=%d\n",
		t.events, t.trades, t.limitOrds, t.marketOrds, t.cancelOrds, t.volTraded)

	avgSpread := decimal.NewFromFloat(0)
	avgMid := decimal.NewFromFloat(0)
	if t.events > 0 {
		avgSpread = decimal.NewFromFloat(t.sumSpread).Div(decimal.NewFromInt(t.events))
	}
	if t.midCount > 0 {
		avgMid = decimal.NewFromFloat(t.sumMid).Div(decimal.NewFromInt(t.midCount))
	}
	fmt.Fprintf(&b, "avg_spread=%s avg_mid=%s max_drawdown_ticks=%d\n",
		avgSpread.Round(4).String(),
		avgMid.Round(4).String(),
		t.maxDrawdn)

	buySlip := decimal.NewFromFloat(0)
	if t.buySlipQty > 0 {
		buySlip = decimal.NewFromFloat(t.buySlipSum).Div(decimal.NewFromFloat(t.buySlipQty))
	}
	sellSlip := decimal.NewFromFloat(0)
	if t.sellSlipQty > 0 {
		sellSlip = decimal.NewFromFloat(t.sellSlipSum).Div(decimal.NewFromFloat(t.sellSlipQty))
	}
	fmt.Fprintf(&b, "mo_slip_buy_vw=%s mo_slip_sell_vw=%s\n", buySlip.Round(6).String(), sellSlip.Round(6).String())

	b.WriteString("fill_ratio_by_offset:")
	for i := offsetBucket(0); i < numBuckets; i++ {
		st := t.buckets[i]
		ratio := decimal.NewFromFloat(0)
		if st.submitted > 0 {
			ratio = decimal.NewFromInt(st.filled).Div(decimal.NewFromInt(st.submitted))
		}
		fmt.Fprintf(&b, " [%s]=%s(%d/%d)", i.label(), ratio.Round(4).String(), st.filled, st.submitted)
	}
	b.WriteString("\n")

	return b.String()
}

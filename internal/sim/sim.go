// Package sim implements the event-driven stochastic market simulator:
// a two-state Markov regime switcher driving a Poisson arrival clock,
// a categorical event-type sampler, and telemetry accumulation, all
// laid over an internal/book.OrderBook via an internal/match.Engine.
package sim

import (
	"go.uber.org/zap"

	"github.com/kdtran/lobsim/internal/book"
	"github.com/kdtran/lobsim/internal/config"
	"github.com/kdtran/lobsim/internal/logging"
	"github.com/kdtran/lobsim/internal/match"
)

// Simulator owns one run's book, engine, PRNG state, and telemetry.
type Simulator struct {
	cfg    config.SimConfig
	log    *logging.Logger
	book   *book.OrderBook
	engine *match.Engine
	rng    *rng

	regime Regime
	tCurr  book.TimePoint

	live *liveIDs
	tel  *telemetry
}

// New builds a Simulator against a fresh order book, starting in the
// Low regime at t=0.
func New(cfg config.SimConfig, log *logging.Logger) *Simulator {
	ob := book.New()
	return &Simulator{
		cfg:    cfg,
		log:    log,
		book:   ob,
		engine: match.New(ob),
		rng:    newRNG(cfg.Seed),
		regime: Low,
		live:   newLiveIDs(),
		tel:    newTelemetry(),
	}
}

// pickEventType draws an event type from the active regime's mix using
// cumulative-threshold selection over a single uniform draw, in the
// fixed order LimitBuy, LimitSell, MktBuy, MktSell, Cancel (Cancel's
// share is whatever probability mass remains).
type eventType int

const (
	evLimitBuy eventType = iota
	evLimitSell
	evMktBuy
	evMktSell
	evCancel
)

func (s *Simulator) pickEventType() eventType {
	mix := s.mixFor(s.regime)
	u := s.rng.float64()

	cum := mix.PLimitBuy
	if u < cum {
		return evLimitBuy
	}
	cum += mix.PLimitSell
	if u < cum {
		return evLimitSell
	}
	cum += mix.PMktBuy
	if u < cum {
		return evMktBuy
	}
	cum += mix.PMktSell
	if u < cum {
		return evMktSell
	}
	return evCancel
}

// nextEvent advances the simulated clock by one Exp(lambda) draw under
// the current regime, then switches the regime. The exponential draw
// is applied to tCurr before any order from this event is stamped, so
// every event carries the clock value at its own arrival time.
func (s *Simulator) nextEvent() {
	lambda := s.lambdaFor(s.regime)
	dt := s.drawExp(lambda)
	s.tCurr += book.TimePoint(dt)
	s.maybeSwitchRegime()
}

// execute draws and applies one event's action against the book.
func (s *Simulator) execute() {
	switch s.pickEventType() {
	case evLimitBuy:
		s.submitLimit(book.Buy)
	case evLimitSell:
		s.submitLimit(book.Sell)
	case evMktBuy:
		s.submitMarket(book.Buy)
	case evMktSell:
		s.submitMarket(book.Sell)
	case evCancel:
		s.submitCancel()
	}
}

func (s *Simulator) submitLimit(side book.Side) {
	bothSided := !s.book.Empty(book.Buy) && !s.book.Empty(book.Sell)
	var mid int64
	if bothSided {
		mid = int64(s.book.BestBid()+s.book.BestAsk()) / 2
	}
	px := s.decideLimitPrice(side)
	qty := s.drawGeometricMean(s.cfg.MeanLimitQty)

	var offset int64
	if bothSided {
		offset = int64(px) - mid
		if offset < 0 {
			offset = -offset
		}
	}
	bucket := s.tel.recordLimitSubmit(offset, bothSided)

	var fills []match.Fill
	id, err := s.engine.SubmitLimit(side, px, qty, s.tCurr, &fills)
	if err != nil {
		s.log.Warn("submitLimit failed", zap.Error(err))
		return
	}

	s.applyFills(fills)

	if _, resting := s.book.QtyOf(id); resting {
		s.tel.trackPendingBucket(uint64(id), bucket)
		s.live.add(id)
	}
}

func (s *Simulator) submitMarket(side book.Side) {
	preMid := float64(s.currentMid())
	qty := s.drawGeometricMean(s.cfg.MeanMarketQty)

	var fills []match.Fill
	_, err := s.engine.SubmitMarket(side, qty, s.tCurr, &fills)
	if err != nil {
		s.log.Warn("submitMarket failed", zap.Error(err))
		return
	}
	s.tel.recordMarketSubmit()

	var notional, filledQty float64
	for _, f := range fills {
		notional += float64(f.Price) * float64(f.Qty)
		filledQty += float64(f.Qty)
	}
	s.tel.recordMarketSlippage(preMid, side == book.Buy, notional, filledQty)
	s.applyFills(fills)
}

// submitCancel cancels a uniformly sampled live order. If the live
// registry is empty there is nothing to cancel, so the event converts
// in place into a fresh limit order on a fair-coin side instead.
func (s *Simulator) submitCancel() {
	if s.live.len() == 0 {
		if s.rng.bernoulli(0.5) {
			s.submitLimit(book.Buy)
		} else {
			s.submitLimit(book.Sell)
		}
		return
	}
	id := s.live.sample(s.rng)
	s.book.Cancel(id)
	s.live.remove(id)
	s.tel.recordLimitRemoved(uint64(id))
	s.tel.recordCancel()
}

// applyFills credits the telemetry trade counters, credits each maker's
// offset bucket the first time any of its resting qty trades, and
// retires makers that fully filled from the live-id registry. The
// taker's own resting residual (if any) is handled by the caller.
func (s *Simulator) applyFills(fills []match.Fill) {
	for _, f := range fills {
		s.tel.recordTrade(int64(f.Price), int64(f.Qty))
		s.tel.recordLimitFilled(uint64(f.MakerID))
		if _, resting := s.book.QtyOf(f.MakerID); !resting {
			s.live.remove(f.MakerID)
		}
	}
}

// Run executes cfg.MaxEvents events, recording a book snapshot into
// telemetry after each one, and returns the final report string.
func (s *Simulator) Run() string {
	for i := 0; i < s.cfg.MaxEvents; i++ {
		s.nextEvent()
		s.execute()
		s.tel.recordEvent()

		bb, ba := s.book.BestBid(), s.book.BestAsk()
		s.tel.recordSnapshot(int64(bb), int64(ba), bb != 0, ba != 0)

		if s.cfg.SnapshotEvery > 0 && (i+1)%s.cfg.SnapshotEvery == 0 {
			s.log.Info("snapshot", zap.Int("event", i+1), zap.Int64("best_bid", int64(bb)), zap.Int64("best_ask", int64(ba)))
		}
		if (i+1)%10000 == 0 {
			s.log.Debug("heartbeat", zap.Int("event", i+1))
		}
	}
	return s.tel.Report()
}

// Book exposes the underlying order book, chiefly so callers can run a
// final SelfCheck after Run returns.
func (s *Simulator) Book() *book.OrderBook { return s.book }

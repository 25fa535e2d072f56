package sim

import (
	"math"

	"github.com/kdtran/lobsim/internal/book"
)

// drawExp draws an Exp(lambda) inter-arrival time. A non-positive
// lambda draws 0 (no regime configured an arrival rate for this leg).
func (s *Simulator) drawExp(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	u := s.rng.uniformPositive()
	return -math.Log(u) / lambda
}

// geometricMeanToP converts a target mean for a shifted-geometric draw
// on {1,2,...} into the underlying Geometric(p) parameter on {0,1,...}:
// mean = 1/p, clamped to p=1 once mean <= 1 (a mean of 1 or less means
// "always draw exactly 1").
func geometricMeanToP(mean float64) float64 {
	if mean <= 1.0 {
		return 1.0
	}
	return 1.0 / mean
}

// drawGeometric0 draws k on {0,1,2,...} from Geometric(p): the number
// of failures before the first success in Bernoulli(p) trials.
func (s *Simulator) drawGeometric0(p float64) int {
	if p >= 1.0 {
		return 0
	}
	u := s.rng.uniformPositive()
	k := int(math.Log(u) / math.Log(1.0-p))
	if k < 0 {
		k = 0
	}
	return k
}

// drawGeometricMean draws a quantity on {1,2,...}: Geometric(p) on
// {0,1,...} shifted up by one, with p derived from the target mean.
func (s *Simulator) drawGeometricMean(mean float64) book.Qty {
	p := geometricMeanToP(mean)
	return book.Qty(s.drawGeometric0(p) + 1)
}

// drawTwoSidedOffset draws a symmetric discrete-Laplace-shaped offset
// from mid: k ~ Geometric(alpha) on {0,1,...}, k' = k+1 clamped to
// max_offset_ticks (when positive), then a fair coin decides the sign.
// The result is never zero — this is the "geolap" zero-absent offset.
func (s *Simulator) drawTwoSidedOffset() int64 {
	alpha := s.cfg.GeolapAlpha
	if alpha <= 0 {
		alpha = 1.0
	}
	if alpha > 1 {
		alpha = 1.0
	}
	k := int64(s.drawGeometric0(alpha)) + 1
	if s.cfg.MaxOffsetTicks > 0 && k > s.cfg.MaxOffsetTicks {
		k = s.cfg.MaxOffsetTicks
	}
	if s.rng.bernoulli(0.5) {
		return k
	}
	return -k
}

// currentMid returns the book's mid if both sides are resting,
// otherwise the configured initial mid.
func (s *Simulator) currentMid() book.Price {
	if m := s.book.Mid(); m > 0 {
		return m
	}
	return book.Price(s.cfg.InitialMidTicks)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// decideLimitPrice draws a candidate price around mid and applies the
// anti-cross rule: if it would immediately cross the opposing best,
// flip a fair coin to decide whether to keep the cross or pull the
// price back to the safe side of the book.
func (s *Simulator) decideLimitPrice(side book.Side) book.Price {
	mid := s.currentMid()
	off := s.drawTwoSidedOffset()
	px := int64(mid) + off

	if side == book.Buy {
		if ba, ok := s.book.Best(book.Sell); ok && px >= int64(ba) {
			if !s.rng.bernoulli(0.5) {
				bb := int64(s.book.BestBid())
				alt := int64(mid) - absInt64(off)
				if alt < bb {
					px = alt
				} else {
					px = bb
				}
			}
		}
	} else {
		if bb, ok := s.book.Best(book.Buy); ok && px <= int64(bb) {
			if !s.rng.bernoulli(0.5) {
				ba := int64(s.book.BestAsk())
				alt := int64(mid) + absInt64(off)
				if alt > ba {
					px = alt
				} else {
					px = ba
				}
			}
		}
	}

	if px < s.cfg.MinPriceTicks {
		px = s.cfg.MinPriceTicks
	}
	return book.Price(px)
}

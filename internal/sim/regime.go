package sim

import "github.com/kdtran/lobsim/internal/config"

// Regime is the hidden state of the two-state Markov chain governing
// arrival rate and event mix.
type Regime uint8

const (
	Low Regime = iota
	High
)

func (r Regime) String() string {
	if r == Low {
		return "Low"
	}
	return "High"
}

// maybeSwitchRegime advances the regime by one Markov step: from Low,
// stay Low with probability p_LL else switch to High; from High, stay
// High with probability p_HH else switch to Low. Invoked once at every
// event boundary, before the event type is drawn.
func (s *Simulator) maybeSwitchRegime() {
	if s.regime == Low {
		if s.rng.bernoulli(s.cfg.Regime.PLL) {
			s.regime = Low
		} else {
			s.regime = High
		}
	} else {
		if s.rng.bernoulli(s.cfg.Regime.PHH) {
			s.regime = High
		} else {
			s.regime = Low
		}
	}
}

func (s *Simulator) mixFor(r Regime) config.RegimeMix {
	if r == Low {
		return s.cfg.Regime.Low.Mix
	}
	return s.cfg.Regime.High.Mix
}

func (s *Simulator) lambdaFor(r Regime) float64 {
	if r == Low {
		return s.cfg.Regime.Low.Lambda
	}
	return s.cfg.Regime.High.Lambda
}

package sim

import (
	"strings"
	"testing"

	"github.com/kdtran/lobsim/internal/book"
	"github.com/kdtran/lobsim/internal/config"
	"github.com/kdtran/lobsim/internal/logging"
)

func TestRunProducesSelfConsistentBook(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 123
	cfg.MaxEvents = 2000
	s := New(cfg, logging.New(logging.Error))

	report := s.Run()
	if !strings.Contains(report, "fill_ratio_by_offset:") {
		t.Fatalf("expected a report containing the fill-ratio section, got: %s", report)
	}
	if !s.Book().SelfCheck() {
		t.Fatalf("expected book to remain self-consistent after a run")
	}
}

func TestRunIsDeterministicGivenSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 55
	cfg.MaxEvents = 500

	r1 := New(cfg, logging.New(logging.Error)).Run()
	r2 := New(cfg, logging.New(logging.Error)).Run()
	if r1 != r2 {
		t.Fatalf("expected identical reports for identical seed and config")
	}
}

func TestRunWithDifferentSeedsDiffers(t *testing.T) {
	cfg1 := config.Default()
	cfg1.Seed = 1
	cfg1.MaxEvents = 500
	cfg2 := cfg1
	cfg2.Seed = 2

	r1 := New(cfg1, logging.New(logging.Error)).Run()
	r2 := New(cfg2, logging.New(logging.Error)).Run()
	if r1 == r2 {
		t.Fatalf("expected different seeds to produce different runs")
	}
}

func TestPickEventTypeRespectsExtremeMix(t *testing.T) {
	cfg := config.Default()
	cfg.Regime.Low.Mix.PLimitBuy = 1.0
	cfg.Regime.Low.Mix.PLimitSell = 0
	cfg.Regime.Low.Mix.PMktBuy = 0
	cfg.Regime.Low.Mix.PMktSell = 0
	s := New(cfg, logging.New(logging.Error))
	s.regime = Low

	for i := 0; i < 100; i++ {
		if got := s.pickEventType(); got != evLimitBuy {
			t.Fatalf("expected evLimitBuy with p_limit_buy=1, got %v", got)
		}
	}
}

func TestCancelEventRemovesFromLiveRegistry(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, logging.New(logging.Error))
	s.submitLimit(book.Buy)
	if s.live.len() != 1 {
		t.Fatalf("expected 1 live order after a resting limit submit")
	}
	s.submitCancel()
	if s.live.len() != 0 {
		t.Fatalf("expected 0 live orders after cancel, got %d", s.live.len())
	}
}

func TestCancelWithNoLiveOrdersFallsBackToFreshLimit(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, logging.New(logging.Error))

	if s.live.len() != 0 {
		t.Fatalf("expected a fresh simulator to start with no live orders")
	}
	s.submitCancel()
	if s.tel.limitOrds != 1 {
		t.Fatalf("expected the fallback to be recorded as a limit submit, got limitOrds=%d", s.tel.limitOrds)
	}
	if s.tel.cancelOrds != 0 {
		t.Fatalf("expected the fallback not to count as a cancel, got cancelOrds=%d", s.tel.cancelOrds)
	}
}

func TestSubmitLimitOffsetBucketZeroOnOneSidedBook(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, logging.New(logging.Error))

	s.submitLimit(book.Buy)
	if s.tel.buckets[bucket0].submitted != 1 {
		t.Fatalf("expected the first limit order on an empty book to land in bucket0, got %+v", s.tel.buckets)
	}
}

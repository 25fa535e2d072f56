package sim

import (
	"strings"
	"testing"
)

func TestBucketOfBoundaries(t *testing.T) {
	cases := map[int64]offsetBucket{
		0:  bucket0,
		1:  bucket1to2,
		2:  bucket1to2,
		3:  bucket3to5,
		5:  bucket3to5,
		6:  bucket6to10,
		10: bucket6to10,
		11: bucketOver10,
		99: bucketOver10,
	}
	for k, want := range cases {
		if got := bucketOf(k); got != want {
			t.Errorf("bucketOf(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestTelemetryFillTrackingByBucket(t *testing.T) {
	tel := newTelemetry()
	b1 := tel.recordLimitSubmit(0, true)
	tel.trackPendingBucket(1, b1)
	b2 := tel.recordLimitSubmit(1, true)
	tel.trackPendingBucket(2, b2)
	tel.recordLimitFilled(1)
	tel.recordLimitRemoved(2)

	if tel.buckets[bucket0].submitted != 1 || tel.buckets[bucket0].filled != 1 {
		t.Fatalf("expected bucket0 to record 1 submitted/1 filled, got %+v", tel.buckets[bucket0])
	}
	if tel.buckets[bucket1to2].submitted != 1 || tel.buckets[bucket1to2].filled != 0 {
		t.Fatalf("expected bucket1to2 to record 1 submitted/0 filled, got %+v", tel.buckets[bucket1to2])
	}
}

func TestTelemetryNeverCreditsAFillForAnOrderThatNeverRested(t *testing.T) {
	tel := newTelemetry()
	b := tel.recordLimitSubmit(0, true)
	// A taker order that fully crosses at submission never rests, so
	// its id must never be registered for later fill credit.
	_ = b
	tel.recordLimitFilled(42)

	if tel.buckets[bucket0].filled != 0 {
		t.Fatalf("expected no fill credit for an id that was never tracked as pending, got %+v", tel.buckets[bucket0])
	}
}

func TestTelemetryTracksLimitOffsetDistributionOnlyWhenBothSided(t *testing.T) {
	tel := newTelemetry()
	tel.recordLimitSubmit(3, true)
	tel.recordLimitSubmit(0, false)

	if tel.limitOffsetCount != 1 {
		t.Fatalf("expected limitOffsetCount to only count the both-sided submission, got %d", tel.limitOffsetCount)
	}
	if tel.limitOffsetAbsSum != 3 {
		t.Fatalf("expected limitOffsetAbsSum=3, got %d", tel.limitOffsetAbsSum)
	}
	if tel.limitOffsetHist[3] != 1 {
		t.Fatalf("expected limitOffsetHist[3]=1, got %d", tel.limitOffsetHist[3])
	}
}

func TestTelemetrySnapshotTracksDrawdown(t *testing.T) {
	tel := newTelemetry()
	tel.recordSnapshot(100, 102, true, true) // mid=101, peak=101
	tel.recordSnapshot(90, 92, true, true)   // mid=91, drawdown=101-91=10 ticks

	if tel.maxDrawdn <= 0 {
		t.Fatalf("expected positive drawdown after mid dropped, got %v", tel.maxDrawdn)
	}

	tel.recordSnapshot(200, 202, true, true) // new peak, drawdown resets relative to it
	if tel.peakMid != 201 {
		t.Fatalf("expected peak to update to 201, got %v", tel.peakMid)
	}
}

func TestTelemetrySnapshotIgnoresOneSidedBook(t *testing.T) {
	tel := newTelemetry()
	tel.recordSnapshot(100, 0, true, false)
	if tel.midCount != 0 {
		t.Fatalf("expected one-sided snapshot to be ignored")
	}
}

func TestTelemetryReportFormat(t *testing.T) {
	tel := newTelemetry()
	tel.recordEvent()
	b := tel.recordLimitSubmit(0, true)
	tel.trackPendingBucket(1, b)
	tel.recordLimitFilled(1)
	tel.recordTrade(100, 5)

	report := tel.Report()
	if !strings.Contains(report, "events=1") {
		t.Fatalf("expected report to contain the event counter, got: %s", report)
	}
	if !strings.Contains(report, "fill_ratio_by_offset:") {
		t.Fatalf("expected report to contain fill ratio section, got: %s", report)
	}
}

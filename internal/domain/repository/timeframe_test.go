package repository

import (
	"testing"
	"time"
)

func TestNormalizeTimeframe(t *testing.T) {
	if got := NormalizeTimeframe(""); got != TF30s {
		t.Fatalf("empty should default, got %s", got)
	}
	if got := NormalizeTimeframe("5m"); got != TF5m {
		t.Fatalf("expected 5m, got %s", got)
	}
	if got := NormalizeTimeframe("7m"); got != TF30s {
		t.Fatalf("unknown should default, got %s", got)
	}
}

func TestTimeframeDurations(t *testing.T) {
	cases := map[Timeframe]time.Duration{
		TF1s:  time.Second,
		TF30s: 30 * time.Second,
		TF1h:  time.Hour,
		TF1mn: 30 * 24 * time.Hour,
	}
	for tf, want := range cases {
		if got := TimeframeDuration(tf); got != want {
			t.Fatalf("%s: expected %v, got %v", tf, want, got)
		}
	}
	if TimeframeDuration(Timeframe("bogus")) != 0 {
		t.Fatal("unknown timeframe should have zero duration")
	}
}

func TestValidTimeframesOrdered(t *testing.T) {
	all := ValidTimeframes()
	if len(all) != 19 {
		t.Fatalf("expected 19 timeframes, got %d", len(all))
	}
	if all[0] != "1s" || all[len(all)-1] != "1mn" {
		t.Fatalf("unexpected ordering: %v", all)
	}
	for _, s := range all {
		if !IsValidTimeframe(Timeframe(s)) {
			t.Fatalf("%s should be valid", s)
		}
	}
}

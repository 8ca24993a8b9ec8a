package collector

import (
	"path/filepath"
	"testing"
	"time"

	"StochScan/internal/model"
)

func newTestCache(t *testing.T, inner Fetcher, ttl time.Duration) *CachedFetcher {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.db")
	c, err := NewCachedFetcher(path, inner, ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachedFetcher_ReadThrough(t *testing.T) {
	inner := &MockFetcher{Bars: map[string][]model.Bar{
		"AVALON": GenerateBars(100, 10),
	}}
	c := newTestCache(t, inner, time.Hour)

	first, err := c.FetchDailyBars("AVALON", "NSE", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 10 {
		t.Fatalf("expected 10 bars, got %d", len(first))
	}

	second, err := c.FetchDailyBars("AVALON", "NSE", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 10 {
		t.Fatalf("expected 10 cached bars, got %d", len(second))
	}
	if got := inner.Fetched(); len(got) != 1 {
		t.Errorf("second fetch should be served from cache; inner saw %v", got)
	}
	for i := range first {
		if second[i].Close != first[i].Close {
			t.Fatalf("bar %d close mismatch: %v vs %v", i, second[i].Close, first[i].Close)
		}
		if !second[i].Date.Equal(first[i].Date.Truncate(time.Second)) {
			t.Fatalf("bar %d date mismatch: %v vs %v", i, second[i].Date, first[i].Date)
		}
	}
}

func TestCachedFetcher_ExpiredTTLRefetches(t *testing.T) {
	inner := &MockFetcher{Bars: map[string][]model.Bar{
		"AVALON": GenerateBars(100, 5),
	}}
	c := newTestCache(t, inner, -time.Second)

	for i := 0; i < 2; i++ {
		if _, err := c.FetchDailyBars("AVALON", "NSE", 5); err != nil {
			t.Fatal(err)
		}
	}
	if got := inner.Fetched(); len(got) != 2 {
		t.Errorf("expired entries must hit the source again; inner saw %v", got)
	}
}

func TestCachedFetcher_InsufficientBarsRefetches(t *testing.T) {
	inner := &MockFetcher{Bars: map[string][]model.Bar{
		"AVALON": GenerateBars(100, 20),
	}}
	c := newTestCache(t, inner, time.Hour)

	if _, err := c.FetchDailyBars("AVALON", "NSE", 5); err != nil {
		t.Fatal(err)
	}
	// Asking for more bars than the cached fetch held must go to the source.
	bars, err := c.FetchDailyBars("AVALON", "NSE", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 10 {
		t.Fatalf("expected 10 bars, got %d", len(bars))
	}
	if got := inner.Fetched(); len(got) != 2 {
		t.Errorf("larger request should bypass cache; inner saw %v", got)
	}
}

func TestCachedFetcher_NoData(t *testing.T) {
	inner := &MockFetcher{}
	c := newTestCache(t, inner, time.Hour)

	bars, err := c.FetchDailyBars("UNKNOWN", "NSE", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected no data, got %d bars", len(bars))
	}
}

package stats

import (
	"testing"

	"co2-stats/domain/emissions"
)

func TestCachedComputesOnce(t *testing.T) {
	c := NewCache(testIndex())
	calls := 0
	compute := func() int {
		calls++
		return 7
	}

	if got := cached(c, "k", compute); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := cached(c, "k", compute); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if calls != 1 {
		t.Errorf("expected a single computation, got %d", calls)
	}
}

func TestCacheKeyedOnTableIdentity(t *testing.T) {
	t1 := testTable()
	t2 := testTable() // same contents, distinct instance

	k1 := cacheKey(t1, "byYear", "Total")
	k2 := cacheKey(t2, "byYear", "Total")
	if k1 == k2 {
		t.Error("a fresh table instance must produce a fresh cache key")
	}
	if k1 != cacheKey(t1, "byYear", "Total") {
		t.Error("the same table and arguments must produce a stable key")
	}
}

func TestCacheAggregateByYear(t *testing.T) {
	c := NewCache(testIndex())
	tab := testTable()

	first := c.AggregateByYear(tab, "Total")
	second := c.AggregateByYear(tab, "Total")
	if len(first) != len(second) {
		t.Fatalf("cached result diverged: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}

	if got := c.AggregateByYear(tab, "Coal"); got[0].Value != 130 {
		t.Errorf("distinct arguments must not collide: got %+v", got)
	}
}

func TestCacheRegionIndexFixed(t *testing.T) {
	c := NewCache(emissions.NewRegionIndex(map[string][]string{"Asia": {"CHN"}}))
	got := c.AggregateByRegion(testTable(), "Total", 0)
	if len(got) != 1 || got[0].Region != "Asia" {
		t.Errorf("cache must aggregate with its configured index, got %+v", got)
	}
}

package stats

import (
	"fmt"
	"sync"

	"co2-stats/domain/emissions"
)

// Cache memoizes aggregation results for the web layer, where the same
// query is recomputed on every interaction. Keys combine the table's
// process-unique ID with the operation and its arguments, so a freshly
// loaded table instance always misses. The region index is fixed at
// construction; handlers run concurrently, hence the mutex.
type Cache struct {
	idx emissions.RegionIndex

	mu      sync.Mutex
	entries map[string]any
}

func NewCache(idx emissions.RegionIndex) *Cache {
	return &Cache{idx: idx, entries: make(map[string]any)}
}

func cacheKey(t *emissions.Table, op string, args ...any) string {
	return fmt.Sprintf("%s|t%d|%v", op, t.ID(), args)
}

func cached[T any](c *Cache, key string, compute func() T) T {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v.(T)
	}
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v
}

func (c *Cache) AggregateByYear(t *emissions.Table, column string) []YearValue {
	return cached(c, cacheKey(t, "byYear", column), func() []YearValue {
		return AggregateByYear(t, column)
	})
}

func (c *Cache) AggregateByRegion(t *emissions.Table, column string, year int) []RegionValue {
	return cached(c, cacheKey(t, "byRegion", column, year), func() []RegionValue {
		return AggregateByRegion(t, c.idx, column, year)
	})
}

func (c *Cache) AggregateBySource(t *emissions.Table, year int, country string) []SourceValue {
	return cached(c, cacheKey(t, "bySource", year, country), func() []SourceValue {
		return AggregateBySource(t, year, country)
	})
}

func (c *Cache) PerSourcePercentages(t *emissions.Table, year int) []SourceShare {
	return cached(c, cacheKey(t, "sourcePct", year), func() []SourceShare {
		return PerSourcePercentages(t, year)
	})
}

func (c *Cache) TopEmitters(t *emissions.Table, column string, year, n int) []emissions.Record {
	return cached(c, cacheKey(t, "topEmitters", column, year, n), func() []emissions.Record {
		return TopEmitters(t, column, year, n)
	})
}

func (c *Cache) GrowthRates(t *emissions.Table, column string, periods []int) []GrowthRate {
	return cached(c, cacheKey(t, "growth", column, periods), func() []GrowthRate {
		return GrowthRates(t, column, periods)
	})
}

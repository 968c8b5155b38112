package marketdata

import (
	"sort"
	"sync"
	"time"
)

// Cache keeps a rolling window of price slots across provider fetches.
// A fetch only carries today's and tomorrow's prices, so slots already
// seen are kept until they age out. Reads come from the evaluation loop,
// writes from the fetcher.
type Cache struct {
	slots []Marketprice
	sync.RWMutex
}

// Update merges fresh slots into the cache: entries older than one day
// before now are dropped, duplicates (same start time) are replaced by
// the fresh entry, and the result stays sorted by start time.
func (c *Cache) Update(fresh []Marketprice, now time.Time) []Marketprice {
	c.Lock()
	defer c.Unlock()

	cutoff := now.Add(-24 * time.Hour)
	byStart := make(map[time.Time]Marketprice)
	for _, m := range c.slots {
		if m.StartTime.Before(cutoff) {
			continue
		}
		byStart[m.StartTime] = m
	}
	for _, m := range fresh {
		if m.StartTime.Before(cutoff) {
			continue
		}
		byStart[m.StartTime] = m
	}

	merged := make([]Marketprice, 0, len(byStart))
	for _, m := range byStart {
		merged = append(merged, m)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].StartTime.Before(merged[j].StartTime)
	})

	c.slots = merged
	return merged
}

func (c *Cache) Get() []Marketprice {
	c.RLock()
	defer c.RUnlock()
	return c.slots
}

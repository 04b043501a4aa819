package marketdata

import (
	"sort"
	"sync"
	"time"
)

// DataCache is an in-memory, time-ordered per-ticker store of Aggregates.
// Each ticker's bars are kept in a slice sorted ascending by datetime so
// range and last-at-or-before lookups run in O(log n) via binary search.
type DataCache struct {
	mu   sync.RWMutex
	bars map[string][]Aggregate
}

// NewDataCache returns an empty cache.
func NewDataCache() *DataCache {
	return &DataCache{bars: make(map[string][]Aggregate)}
}

// Store merges data into the ticker's series, overwriting any existing bar
// at the same datetime, and keeps the series sorted by datetime.
func (c *DataCache) Store(ticker string, data []Aggregate) {
	if len(data) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byTime := make(map[int64]Aggregate, len(c.bars[ticker])+len(data))
	for _, agg := range c.bars[ticker] {
		byTime[agg.Datetime.UnixNano()] = agg
	}
	for _, agg := range data {
		byTime[agg.Datetime.UnixNano()] = agg
	}

	merged := make([]Aggregate, 0, len(byTime))
	for _, agg := range byTime {
		merged = append(merged, agg)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Datetime.Before(merged[j].Datetime) })
	c.bars[ticker] = merged
}

// Range returns the bars with start <= datetime <= end, in ascending time
// order, or false if the ticker has no data in that window.
func (c *DataCache) Range(ticker string, start, end time.Time) ([]Aggregate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series := c.bars[ticker]
	if len(series) == 0 {
		return nil, false
	}
	lo := sort.Search(len(series), func(i int) bool { return !series[i].Datetime.Before(start) })
	hi := sort.Search(len(series), func(i int) bool { return series[i].Datetime.After(end) })
	if lo >= hi {
		return nil, false
	}
	out := make([]Aggregate, hi-lo)
	copy(out, series[lo:hi])
	return out, true
}

// LastAtOrBefore returns the greatest-keyed bar with datetime <= t, or
// false if none exists.
func (c *DataCache) LastAtOrBefore(ticker string, t time.Time) (Aggregate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series := c.bars[ticker]
	if len(series) == 0 {
		return Aggregate{}, false
	}
	idx := sort.Search(len(series), func(i int) bool { return series[i].Datetime.After(t) })
	if idx == 0 {
		return Aggregate{}, false
	}
	return series[idx-1], true
}

// At returns the bar exactly at t, if present.
func (c *DataCache) At(ticker string, t time.Time) (Aggregate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series := c.bars[ticker]
	idx := sort.Search(len(series), func(i int) bool { return !series[i].Datetime.Before(t) })
	if idx < len(series) && series[idx].Datetime.Equal(t) {
		return series[idx], true
	}
	return Aggregate{}, false
}

// Bounds returns the earliest and latest datetime stored for ticker.
func (c *DataCache) Bounds(ticker string) (min, max time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	series := c.bars[ticker]
	if len(series) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return series[0].Datetime, series[len(series)-1].Datetime, true
}

package marketdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// job is one (ticker, range) unit of fetch work.
type job struct {
	ticker string
	start  time.Time
	end    time.Time
}

// fetchedRange tracks the earliest start and latest end fetched for a
// ticker, so HasData can answer without re-querying the provider. Gaps
// between separately fetched windows are not tracked.
type fetchedRange struct {
	min, max time.Time
}

func (f fetchedRange) covers(start, end time.Time) bool {
	return !f.min.After(start) && !f.max.Before(end)
}

// Manager plans download jobs against a DataProvider, merges results into
// a DataCache, and answers price queries for the Market service. Jobs are
// always executed in chronological order of their range start, with up to
// Concurrency in flight at once; merging into the cache is serialized by
// the cache's own lock.
type Manager struct {
	provider    DataProvider
	cache       *DataCache
	resolution  Resolution
	concurrency int

	mu      sync.Mutex
	fetched map[string]fetchedRange
}

// NewManager constructs a Manager. concurrency is the max number of
// in-flight fetch jobs (K in the job-planning model); 20 is a reasonable
// default.
func NewManager(provider DataProvider, resolution Resolution, concurrency int) *Manager {
	if concurrency <= 0 {
		concurrency = 20
	}
	return &Manager{
		provider:    provider,
		cache:       NewDataCache(),
		resolution:  resolution,
		concurrency: concurrency,
		fetched:     make(map[string]fetchedRange),
	}
}

// planJobs builds the (ticker, range) Cartesian product, splitting
// [start, end] into whole calendar years (Day resolution) or up to
// four-month windows (Minute resolution), then sorts by range start so
// the earliest ranges are fetched first.
func planJobs(tickers []string, start, end time.Time, resolution Resolution) []job {
	var chunks [][2]time.Time
	switch resolution {
	case Day:
		chunks = yearChunks(start, end)
	default:
		chunks = monthWindowChunks(start, end)
	}

	jobs := make([]job, 0, len(chunks)*len(tickers))
	for _, chunk := range chunks {
		for _, ticker := range tickers {
			jobs = append(jobs, job{ticker: ticker, start: chunk[0], end: chunk[1]})
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].start.Before(jobs[j].start) })
	return jobs
}

func yearChunks(start, end time.Time) [][2]time.Time {
	loc := start.Location()
	var chunks [][2]time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		first := time.Date(year, 1, 1, 0, 0, 0, 0, loc)
		last := time.Date(year, 12, 31, 0, 0, 0, 0, loc)
		chunks = append(chunks, [2]time.Time{first, last})
	}
	return chunks
}

// monthWindowChunks groups consecutive calendar months, four at a time,
// spanning [start, end].
func monthWindowChunks(start, end time.Time) [][2]time.Time {
	loc := start.Location()
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	lastMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)

	var chunks [][2]time.Time
	for !cursor.After(lastMonth) {
		windowEnd := cursor.AddDate(0, 4, 0).AddDate(0, 0, -1)
		chunkEnd := endOfMonth(windowEnd)
		chunks = append(chunks, [2]time.Time{cursor, chunkEnd})
		cursor = cursor.AddDate(0, 4, 0)
	}
	return chunks
}

func endOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// DownloadAll runs every planned job for tickers over [start, end],
// bounded to Concurrency in flight, and merges each result into the
// cache as it completes.
func (m *Manager) DownloadAll(ctx context.Context, tickers []string, start, end time.Time) error {
	jobs := planJobs(tickers, start, end, m.resolution)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			return m.runJob(ctx, j)
		})
	}
	return g.Wait()
}

func (m *Manager) runJob(ctx context.Context, j job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := m.provider.Fetch(ctx, j.ticker, j.start, j.end, m.resolution)
	if err != nil {
		return fmt.Errorf("marketdata: fetch %s [%s, %s]: %w", j.ticker, j.start, j.end, err)
	}
	m.cache.Store(j.ticker, data)
	m.markFetched(j.ticker, j.start, j.end)
	return nil
}

func (m *Manager) markFetched(ticker string, start, end time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.fetched[ticker]
	if !ok {
		m.fetched[ticker] = fetchedRange{min: start, max: end}
		return
	}
	if start.Before(existing.min) {
		existing.min = start
	}
	if end.After(existing.max) {
		existing.max = end
	}
	m.fetched[ticker] = existing
}

// HasData reports whether a fetched range already covers [t0, t1] for
// ticker.
func (m *Manager) HasData(ticker string, t0, t1 time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.fetched[ticker]
	return ok && r.covers(t0, t1)
}

// GetRange returns the cached range for ticker, fetching it on demand with
// maximum priority (blocking the caller) if it isn't already covered.
func (m *Manager) GetRange(ctx context.Context, ticker string, t0, t1 time.Time) ([]Aggregate, bool) {
	if !m.HasData(ticker, t0, t1) {
		if err := m.runJob(ctx, job{ticker: ticker, start: t0, end: t1}); err != nil {
			return nil, false
		}
	}
	return m.cache.Range(ticker, t0, t1)
}

// GetLastBefore returns the last bar at or before t, fetching on demand if
// the window up to t isn't covered yet.
func (m *Manager) GetLastBefore(ctx context.Context, ticker string, t time.Time) (Aggregate, bool) {
	if !m.HasData(ticker, t, t) {
		if err := m.runJob(ctx, job{ticker: ticker, start: t.AddDate(0, 0, -7), end: t}); err != nil {
			return Aggregate{}, false
		}
	}
	return m.cache.LastAtOrBefore(ticker, t)
}

// At returns the bar exactly at t, fetching on demand if needed.
func (m *Manager) At(ctx context.Context, ticker string, t time.Time) (Aggregate, bool) {
	if !m.HasData(ticker, t, t) {
		if err := m.runJob(ctx, job{ticker: ticker, start: t, end: t}); err != nil {
			return Aggregate{}, false
		}
	}
	return m.cache.At(ticker, t)
}

package marketdata

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingProvider counts and records every fetch call, for asserting job
// planning and coverage behavior without a real network dependency.
type recordingProvider struct {
	mu    sync.Mutex
	calls []job
}

func (p *recordingProvider) Fetch(_ context.Context, ticker string, start, end time.Time, _ Resolution) ([]Aggregate, error) {
	p.mu.Lock()
	p.calls = append(p.calls, job{ticker: ticker, start: start, end: end})
	p.mu.Unlock()
	return []Aggregate{{Datetime: start}}, nil
}

func TestPlanJobs_DayResolution_WholeCalendarYearChunks(t *testing.T) {
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	jobs := planJobs([]string{"A", "B"}, start, end, Day)

	years := map[int]bool{}
	for _, j := range jobs {
		years[j.start.Year()] = true
		if j.start.Month() != 1 || j.start.Day() != 1 {
			t.Errorf("expected chunk to start Jan 1, got %s", j.start)
		}
		if j.end.Month() != 12 || j.end.Day() != 31 {
			t.Errorf("expected chunk to end Dec 31, got %s", j.end)
		}
	}
	if len(years) != 3 {
		t.Fatalf("expected 2020,2021,2022, got %v", years)
	}
	if len(jobs) != 3*2 {
		t.Fatalf("expected cartesian product of 3 chunks x 2 tickers = 6, got %d", len(jobs))
	}
}

func TestPlanJobs_SortedByRangeStart(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := planJobs([]string{"A"}, start, end, Day)

	for i := 1; i < len(jobs); i++ {
		if jobs[i].start.Before(jobs[i-1].start) {
			t.Fatalf("jobs not sorted by range start at index %d", i)
		}
	}
}

func TestPlanJobs_MinuteResolution_CoversFullRange(t *testing.T) {
	start := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 9, 10, 0, 0, 0, 0, time.UTC)
	jobs := planJobs([]string{"A"}, start, end, Minute)

	if len(jobs) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if jobs[0].start.After(start) {
		t.Fatalf("first chunk %s starts after range start %s", jobs[0].start, start)
	}
	last := jobs[len(jobs)-1]
	if last.end.Before(end) {
		t.Fatalf("last chunk %s ends before range end %s", last.end, end)
	}
}

func TestManager_DownloadAll_MergesIntoCache(t *testing.T) {
	provider := &recordingProvider{}
	m := NewManager(provider, Day, 4)

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)
	if err := m.DownloadAll(context.Background(), []string{"X"}, start, end); err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if !m.HasData("X", start, end) {
		t.Fatal("expected HasData true after download")
	}
	if _, ok := m.cache.Range("X", start, end); !ok {
		t.Fatal("expected cache populated from download")
	}
}

func TestManager_GetRange_FetchesOnDemandWhenUncovered(t *testing.T) {
	provider := &recordingProvider{}
	m := NewManager(provider, Day, 4)

	t0 := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2021, 5, 2, 0, 0, 0, 0, time.UTC)

	if m.HasData("X", t0, t1) {
		t.Fatal("expected no coverage before any fetch")
	}
	if _, ok := m.GetRange(context.Background(), "X", t0, t1); !ok {
		t.Fatal("expected on-demand fetch to populate the range")
	}
	if len(provider.calls) != 1 {
		t.Fatalf("expected exactly one on-demand fetch, got %d", len(provider.calls))
	}
}

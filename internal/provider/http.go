// Package provider implements concrete DataProvider adapters: HTTPProvider
// (a circuit-breaker-protected, Redis-cached HTTP client) and CSVProvider
// (fixture-backed, for tests and offline runs). Both are external
// collaborators per the specification's scope; the core only consumes the
// marketdata.DataProvider capability.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"jax-backtest/internal/marketdata"
)

type wireAggregate struct {
	Datetime time.Time       `json:"datetime"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
}

func (w wireAggregate) toAggregate() marketdata.Aggregate {
	return marketdata.Aggregate{
		Datetime: w.Datetime,
		Open:     w.Open,
		High:     w.High,
		Low:      w.Low,
		Close:    w.Close,
		Volume:   w.Volume,
	}
}

// HTTPProvider fetches aggregates from a REST bar API, caching responses
// in Redis and wrapping every call in a circuit breaker so a flaky
// upstream fails fast instead of stalling every job in flight.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// HTTPProviderConfig configures an HTTPProvider.
type HTTPProviderConfig struct {
	BaseURL  string
	RedisURL string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// NewHTTPProvider constructs an HTTPProvider and verifies Redis
// connectivity up front.
func NewHTTPProvider(cfg HTTPProviderConfig) (*HTTPProvider, error) {
	cache := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("provider: connect to redis: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = time.Hour
	}

	settings := gobreaker.Settings{
		Name:        "marketdata-http",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 3 && counts.ConsecutiveFailures >= 5
		},
	}

	return &HTTPProvider{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   ttl,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}, nil
}

// Fetch satisfies marketdata.DataProvider: Redis-cached, circuit-breaker
// protected bars for [start, end].
func (p *HTTPProvider) Fetch(ctx context.Context, ticker string, start, end time.Time, resolution marketdata.Resolution) ([]marketdata.Aggregate, error) {
	key := cacheKey(ticker, start, end, resolution)

	if cached, err := p.cache.Get(ctx, key).Bytes(); err == nil {
		return decodeAggregates(cached)
	} else if err != redis.Nil {
		return nil, fmt.Errorf("provider: redis get: %w", err)
	}

	body, err := p.breaker.Execute(func() ([]byte, error) {
		return p.fetchHTTP(ctx, ticker, start, end, resolution)
	})
	if err != nil {
		return nil, fmt.Errorf("provider: fetch %s: %w", ticker, err)
	}

	if err := p.cache.Set(ctx, key, body, p.cacheTTL).Err(); err != nil {
		return nil, fmt.Errorf("provider: redis set: %w", err)
	}
	return decodeAggregates(body)
}

func (p *HTTPProvider) fetchHTTP(ctx context.Context, ticker string, start, end time.Time, resolution marketdata.Resolution) ([]byte, error) {
	u := fmt.Sprintf("%s/api/v1/bars/%s?start=%s&end=%s&resolution=%s",
		p.baseURL,
		url.PathEscape(ticker),
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
		resolutionParam(resolution),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func decodeAggregates(body []byte) ([]marketdata.Aggregate, error) {
	var wire []wireAggregate
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("provider: decode response: %w", err)
	}
	out := make([]marketdata.Aggregate, len(wire))
	for i, w := range wire {
		out[i] = w.toAggregate()
	}
	return out, nil
}

func resolutionParam(r marketdata.Resolution) string {
	if r == marketdata.Minute {
		return "minute"
	}
	return "day"
}

func cacheKey(ticker string, start, end time.Time, resolution marketdata.Resolution) string {
	return fmt.Sprintf("bars:%s:%s:%s:%s", ticker, start.Format(time.RFC3339), end.Format(time.RFC3339), resolutionParam(resolution))
}

// Close releases the Redis connection.
func (p *HTTPProvider) Close() error {
	return p.cache.Close()
}

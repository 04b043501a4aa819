// Package logging provides structured JSON logging for a simulation run,
// with trace identifiers threaded through a context.Context.
package logging

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	tickerKey contextKey = "ticker"
)

// RunInfo carries identifiers that should be attached to every log line
// emitted while processing a given simulation run.
type RunInfo struct {
	RunID  string
	Ticker string
}

// WithRunInfo attaches run-scoped identifiers to ctx.
func WithRunInfo(ctx context.Context, info RunInfo) context.Context {
	if info.RunID != "" {
		ctx = context.WithValue(ctx, runIDKey, info.RunID)
	}
	if info.Ticker != "" {
		ctx = context.WithValue(ctx, tickerKey, info.Ticker)
	}
	return ctx
}

// RunInfoFromContext recovers whatever RunInfo was attached by WithRunInfo.
func RunInfoFromContext(ctx context.Context) RunInfo {
	info := RunInfo{}
	if v := ctx.Value(runIDKey); v != nil {
		if s, ok := v.(string); ok {
			info.RunID = s
		}
	}
	if v := ctx.Value(tickerKey); v != nil {
		if s, ok := v.(string); ok {
			info.Ticker = s
		}
	}
	return info
}

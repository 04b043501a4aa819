package logging

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"
)

var logger = log.New(os.Stdout, "", 0)

// Event writes a single structured JSON log line to stdout, enriched with
// whatever RunInfo is attached to ctx.
func Event(ctx context.Context, level string, event string, fields map[string]any) {
	payload := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"level": level,
		"event": event,
	}

	info := RunInfoFromContext(ctx)
	if info.RunID != "" {
		payload["run_id"] = info.RunID
	}
	if info.Ticker != "" {
		payload["ticker"] = info.Ticker
	}

	for key, value := range normalizeFields(fields) {
		payload[key] = value
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("{\"level\":\"error\",\"event\":\"log_marshal_failed\",\"error\":%q}", err.Error())
		return
	}
	logger.Print(string(raw))
}

// Tick logs one simulator tick at debug level.
func Tick(ctx context.Context, datetime time.Time, state string) {
	Event(ctx, "debug", "tick", map[string]any{
		"datetime": datetime.Format(time.RFC3339),
		"state":    state,
	})
}

// Fatal logs err at level "fatal" under event. It neither exits nor panics;
// the caller decides how to terminate.
func Fatal(ctx context.Context, event string, err error) {
	Event(ctx, "fatal", event, map[string]any{"error": err.Error()})
}

func normalizeFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if err, ok := value.(error); ok {
			out[key] = err.Error()
			continue
		}
		out[key] = value
	}
	return out
}

package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteArtifacts writes a Report's equity curve as CSV and its full event
// log as a single JSON array to dir, creating dir if necessary. The event
// log is written once at run end rather than streamed line-by-line, since
// a Report is only available after Run returns.
func (r Report) WriteArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("stats: create output directory %s: %w", dir, err)
	}
	if err := r.writeEquityCSV(filepath.Join(dir, "equity.csv")); err != nil {
		return err
	}
	if err := r.writeEventLog(filepath.Join(dir, "events.json")); err != nil {
		return err
	}
	return nil
}

func (r Report) writeEquityCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stats: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"datetime", "equity"}); err != nil {
		return fmt.Errorf("stats: write equity header: %w", err)
	}
	for _, sample := range r.Equity {
		row := []string{sample.Datetime.Format(time.RFC3339), sample.Equity.String()}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("stats: write equity row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("stats: flush %s: %w", path, err)
	}
	return nil
}

func (r Report) writeEventLog(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stats: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Events); err != nil {
		return fmt.Errorf("stats: encode event log: %w", err)
	}
	return nil
}

// Package testkit provides shared test helpers used across the backtest
// module's packages: golden-snapshot comparison and a determinism check
// for the simulator's core promise (same inputs, same replay).
package testkit

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

// updateGolden is set via -update to regenerate golden files.
var updateGolden = flag.Bool("update", false, "update golden fixture files")

// Golden compares got (any JSON-marshallable value) against the golden file
// stored at testdata/golden/<name>.json relative to the calling test file.
//
// If -update is passed, the golden file is written and the test passes
// unconditionally:
//
//	go test ./... -update
func Golden(t testing.TB, name string, got any) {
	t.Helper()
	path := goldenPath(t, name)
	if *updateGolden {
		writeGolden(t, path, got)
		return
	}
	assertGolden(t, path, got)
}

// AssertDeterministic calls fn twice and asserts the JSON representation of
// each result is identical. Used to check that a simulation run produces
// the same report given the same configuration and fixture data.
func AssertDeterministic(t testing.TB, fn func() any) {
	t.Helper()
	a := fn()
	b := fn()

	aJSON, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("AssertDeterministic: marshal first result: %v", err)
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("AssertDeterministic: marshal second result: %v", err)
	}

	if string(aJSON) != string(bJSON) {
		t.Errorf("AssertDeterministic: results differ\nfirst:  %s\nsecond: %s", aJSON, bJSON)
	}
}

// goldenPath resolves testdata/golden/<name>.json anchored to the
// directory of the calling test file, not the working directory.
func goldenPath(t testing.TB, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(2) // 0=goldenPath, 1=Golden, 2=test
	if !ok {
		t.Fatalf("goldenPath: unable to resolve caller")
	}
	dir := filepath.Join(filepath.Dir(file), "testdata", "golden")
	return filepath.Join(dir, fmt.Sprintf("%s.json", name))
}

func writeGolden(t testing.TB, path string, v any) {
	t.Helper()
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("golden update: marshal: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("golden update: mkdir: %v", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		t.Fatalf("golden update: write %s: %v", path, err)
	}
	t.Logf("golden: updated %s", path)
}

func assertGolden(t testing.TB, path string, got any) {
	t.Helper()
	wantBytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Errorf("golden: file not found: %s — run with -update to create it", path)
			return
		}
		t.Fatalf("golden: read %s: %v", path, err)
	}

	gotBytes, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("golden: marshal got: %v", err)
	}

	var wantNorm, gotNorm any
	if err := json.Unmarshal(wantBytes, &wantNorm); err != nil {
		t.Fatalf("golden: unmarshal want: %v", err)
	}
	if err := json.Unmarshal(gotBytes, &gotNorm); err != nil {
		t.Fatalf("golden: unmarshal got: %v", err)
	}

	if !reflect.DeepEqual(wantNorm, gotNorm) {
		wantPretty, _ := json.MarshalIndent(wantNorm, "", "  ")
		gotPretty, _ := json.MarshalIndent(gotNorm, "", "  ")
		t.Errorf("golden mismatch for %s\nwant:\n%s\n got:\n%s", path, wantPretty, gotPretty)
	}
}

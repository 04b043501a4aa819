package testkit

import "testing"

func TestGolden_MatchesStoredFixture(t *testing.T) {
	Golden(t, "sample", map[string]any{"name": "sample", "value": 42})
}

func TestAssertDeterministic_SameInputsSameOutput(t *testing.T) {
	AssertDeterministic(t, func() any {
		return map[string]int{"a": 1, "b": 2}
	})
}

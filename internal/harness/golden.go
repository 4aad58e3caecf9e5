package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// traceDocument is the serialized form compared against golden files.
// Structs serialize in field order, so the output is deterministic
// without any canonicalization pass.
type traceDocument struct {
	Scenario string  `json:"scenario"`
	Events   []Event `json:"events"`
}

// RunWithGolden executes a scenario, fails the test on any unmet inline
// expectation, and compares the event trace against
// testdata/golden/{scenario.Name}.golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		t.Fatalf("run scenario %q: %v", sc.Name, err)
	}
	for _, failure := range result.Failures {
		t.Errorf("scenario %q: %s", sc.Name, failure)
	}

	doc := traceDocument{Scenario: result.Scenario, Events: result.Events}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
}

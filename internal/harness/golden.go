package harness

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sortviz/internal/engine"
)

// FormatTrace renders a scenario result as the plain-text golden format:
//
//	scenario: quick_three
//	algorithm: quick
//	input: [3 1 2]
//	0001 [1 3 2] candidate=0 tracker=2
//	0002 [1 2 3] placement=1 tracker=2
//	0003 [1 2 3] done
//	final: [1 2 3]
//	sorted: true
//	outcome: completed
//	steps: 2
//
// Every event line shows the sequence as the observer saw it.
func FormatTrace(name string, r *Result) []byte {
	outcome := engine.OutcomeCompleted
	if r.Aborted {
		outcome = engine.OutcomeAborted
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(&buf, "input: %v\n", r.Input)
	for _, ev := range r.Trace {
		fmt.Fprintf(&buf, "%04d %v", ev.Seq, ev.Snapshot)
		if ev.Done {
			buf.WriteString(" done")
		}
		for _, h := range ev.Highlights {
			buf.WriteByte(' ')
			buf.WriteString(h.String())
		}
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "final: %v\n", r.Final)
	fmt.Fprintf(&buf, "sorted: %t\n", r.Sorted)
	fmt.Fprintf(&buf, "outcome: %s\n", outcome)
	fmt.Fprintf(&buf, "steps: %d\n", r.Steps)
	return buf.Bytes()
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<base>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// RunWithGolden executes a scenario and compares its trace against
// <fixtureDir>/<scenario.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, fixtureDir string, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	AssertGolden(t, fixtureDir, scenario.Name, result)
	return result
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, fixtureDir, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(fixtureDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, FormatTrace(name, result))
}

// Package harness runs sorting scenarios against the real engine and checks
// their observation traces.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: quick_three
//	description: "Quick sort on a three-element sequence"
//	algorithm: quick
//	input: [3, 1, 2]        # or: size: 64 and seed: 7
//	observe: true           # default true
//	abort_after: 0          # stop the run at this step (0 = never)
//	expect:
//	  final: [1, 2, 3]
//	  sorted: true
//	  aborted: false
//	  steps: 2
//	  min_steps: 1
//
// # Built-in Checks
//
// Independent of the expect block, every result is checked for:
//   - the final sequence is a permutation of the input
//   - a completed run is non-decreasing and reports sorted
//   - event seq numbers are 1..n without gaps
//   - only the last event of a completed observed run is marked done
//
// # Deterministic Testing
//
// Scenarios run with a fixed run id and, for generated input, a fixed seed, so
// the trace is identical across runs. FormatTrace renders it as text for golden
// file comparison.
//
// # Usage
//
//	sc, err := harness.LoadScenario("testdata/scenarios/quick_three.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, sc)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness

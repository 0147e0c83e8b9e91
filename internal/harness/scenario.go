package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sortviz/internal/engine"
)

// DefaultRunID is the run id used when a scenario does not name one.
const DefaultRunID = "run-scenario"

// Scenario defines one deterministic sorting run and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Algorithm is any name accepted by engine.ParseAlgorithm.
	Algorithm string `yaml:"algorithm"`

	// Input is an explicit starting sequence. Mutually exclusive with Size.
	Input []int `yaml:"input,omitempty"`

	// Size and Seed generate the starting sequence via engine.New.
	Size int    `yaml:"size,omitempty"`
	Seed uint64 `yaml:"seed,omitempty"`

	// Observe selects observed mode. Nil means true.
	Observe *bool `yaml:"observe,omitempty"`

	// AbortAfter stops the run by returning engine.ErrStop from step
	// AbortAfter. Zero never aborts. Requires observed mode.
	AbortAfter int64 `yaml:"abort_after,omitempty"`

	// RunID is an optional fixed run id. Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Expect holds the expected outcome. Every field is optional.
	Expect Expectation `yaml:"expect"`
}

// Expectation lists the expected outcome of a scenario.
type Expectation struct {
	Final    []int  `yaml:"final,omitempty"`
	Sorted   *bool  `yaml:"sorted,omitempty"`
	Aborted  bool   `yaml:"aborted,omitempty"`
	Steps    *int64 `yaml:"steps,omitempty"`
	MinSteps int64  `yaml:"min_steps,omitempty"`
}

// Observed reports whether the scenario runs in observed mode.
func (s *Scenario) Observed() bool {
	return s.Observe == nil || *s.Observe
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "abort_at:" vs "abort_after:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// ScenarioFiles returns the .yaml and .yml files directly inside dir, sorted.
func ScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if _, err := engine.ParseAlgorithm(s.Algorithm); err != nil {
		return fmt.Errorf("algorithm: %w", err)
	}

	switch {
	case len(s.Input) > 0 && s.Size != 0:
		return fmt.Errorf("input and size are mutually exclusive")
	case len(s.Input) == 0 && s.Size == 0:
		return fmt.Errorf("one of input or size is required")
	case s.Size < 0:
		return fmt.Errorf("size must be positive, got %d", s.Size)
	case len(s.Input) > 0 && s.Seed != 0:
		return fmt.Errorf("seed only applies to generated input")
	}

	if s.AbortAfter < 0 {
		return fmt.Errorf("abort_after must be non-negative")
	}
	if s.AbortAfter > 0 && !s.Observed() {
		return fmt.Errorf("abort_after requires observe: true")
	}

	if s.Expect.Steps != nil && *s.Expect.Steps < 0 {
		return fmt.Errorf("expect.steps must be non-negative")
	}
	if s.Expect.MinSteps < 0 {
		return fmt.Errorf("expect.min_steps must be non-negative")
	}
	if s.Expect.Aborted && s.AbortAfter == 0 {
		return fmt.Errorf("expect.aborted requires abort_after")
	}

	return nil
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a store scenario: a sequence of operations with
// expected outcomes and assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// CallToken is the fixed call ID stamped on every notification.
	// If empty, defaults to "test-call-default".
	CallToken string `yaml:"call_token,omitempty"`

	// Message overrides the introductory message of the fresh store.
	Message string `yaml:"message,omitempty"`

	// Steps are executed in order, one store call each.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and notification log.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is a single store operation.
type Step struct {
	// Op names the operation (see the Op constants).
	Op string `yaml:"op"`

	// Args holds the operation arguments.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Expect is the expected outcome. If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
// Exactly one of Result and Error may be set.
type Expect struct {
	// Result is a subset match against the step result fields.
	Result map[string]interface{} `yaml:"result,omitempty"`

	// Error is the expected store error code (e.g. "INVALID_COUNT").
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state or the notification log.
type Assertion struct {
	// Type is one of length, slot, stats, event_count.
	Type string `yaml:"type"`

	// Value is the expected length (length).
	Value *uint64 `yaml:"value,omitempty"`

	// Index and Text address one slot (slot).
	Index *uint64 `yaml:"index,omitempty"`
	Text  *string `yaml:"text,omitempty"`

	// Expected statistics (stats). Unset fields are not checked.
	Total         *uint64 `yaml:"total,omitempty"`
	Filled        *uint64 `yaml:"filled,omitempty"`
	AverageLength *uint64 `yaml:"average_length,omitempty"`

	// Kind filters notifications and Count is the expected number (event_count).
	Kind  string `yaml:"kind,omitempty"`
	Count *int   `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLength     = "length"
	AssertSlot       = "slot"
	AssertStats      = "stats"
	AssertEventCount = "event_count"
)

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
	// Strict field validation catches typos like "assertion:" vs "assertions:"
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil && step.Expect.Result != nil && step.Expect.Error != "" {
			return fmt.Errorf("steps[%d].expect: result and error are mutually exclusive", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertLength:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for length", index)
		}
	case AssertSlot:
		if a.Index == nil || a.Text == nil {
			return fmt.Errorf("assertions[%d]: index and text are required for slot", index)
		}
	case AssertStats:
		if a.Total == nil && a.Filled == nil && a.AverageLength == nil {
			return fmt.Errorf("assertions[%d]: stats needs at least one of total, filled, average_length", index)
		}
	case AssertEventCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for event_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

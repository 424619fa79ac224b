package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pulseseq/internal/ir"
)

// Scenario is one compilation test case loaded from YAML.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// ClockMHz is the pulse-generator clock. Zero means 500 MHz.
	ClockMHz float64 `yaml:"clock_mhz,omitempty"`

	// Channels are compiled directly when present.
	Channels []ir.Channel `yaml:"channels,omitempty"`

	// Sequence names a registered generator to run instead of Channels.
	Sequence *SequenceStep `yaml:"sequence,omitempty"`

	// Assertions are evaluated against the compilation result.
	Assertions []Assertion `yaml:"assertions"`
}

// SequenceStep selects a generator and its positional arguments.
type SequenceStep struct {
	Name string    `yaml:"name"`
	Args []float64 `yaml:"args"`
}

// Assertion is one expectation about a compilation result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Instructions is the exact expected table (used by instructions).
	Instructions []ir.Instruction `yaml:"instructions,omitempty"`

	// TotalNS is the expected loop length (used by total).
	TotalNS int64 `yaml:"total_ns,omitempty"`

	// Count is the expected number of instructions (used by instruction_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected error code (used by error).
	Code string `yaml:"code,omitempty"`

	// Channel, AtNS and Level describe an output level (used by level).
	Channel string `yaml:"channel,omitempty"`
	AtNS    int64  `yaml:"at_ns,omitempty"`
	Level   int    `yaml:"level,omitempty"`
}

// Assertion type constants.
const (
	AssertInstructions     = "instructions"
	AssertInstructionCount = "instruction_count"
	AssertTotal            = "total"
	AssertError            = "error"
	AssertLevel            = "level"
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

// ParseScenario parses scenario YAML from memory.
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

	hasChannels := len(s.Channels) > 0
	hasSequence := s.Sequence != nil
	switch {
	case hasChannels && hasSequence:
		return fmt.Errorf("channels and sequence are mutually exclusive")
	case !hasChannels && !hasSequence:
		return fmt.Errorf("one of channels or sequence is required")
	}
	if hasSequence && s.Sequence.Name == "" {
		return fmt.Errorf("sequence.name is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
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
	case AssertInstructions:
		if len(a.Instructions) == 0 {
			return fmt.Errorf("assertions[%d]: instructions list is required", index)
		}
	case AssertInstructionCount:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive", index)
		}
	case AssertTotal:
		if a.TotalNS <= 0 {
			return fmt.Errorf("assertions[%d]: total_ns must be positive", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	case AssertLevel:
		if a.Channel == "" {
			return fmt.Errorf("assertions[%d]: channel is required for level", index)
		}
		if a.Level != 0 && a.Level != 1 {
			return fmt.Errorf("assertions[%d]: level must be 0 or 1", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

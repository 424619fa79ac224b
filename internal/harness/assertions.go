package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/pulseseq/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the compiled table to help debug the failure.
type AssertionError struct {
	Type         string // Assertion type for categorization
	Expected     string // Human-readable expected outcome
	Actual       string // Human-readable actual outcome
	Instructions []ir.Instruction
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Instructions) > 0 {
		fmt.Fprintf(&buf, "\nCompiled table:\n")
		for i, in := range e.Instructions {
			fmt.Fprintf(&buf, "  [%d] %s\n", i, in)
		}
	}
	return buf.String()
}

// evaluate dispatches one assertion.
func evaluate(r *Result, a Assertion) error {
	if a.Type != AssertError && r.ErrCode != "" {
		return &AssertionError{
			Type:     a.Type,
			Expected: "successful compilation",
			Actual:   "error " + r.ErrCode,
		}
	}

	switch a.Type {
	case AssertInstructions:
		return assertInstructions(r, a)
	case AssertInstructionCount:
		if len(r.Instructions) != a.Count {
			return &AssertionError{
				Type:         a.Type,
				Expected:     fmt.Sprintf("%d instructions", a.Count),
				Actual:       fmt.Sprintf("%d instructions", len(r.Instructions)),
				Instructions: r.Instructions,
			}
		}
	case AssertTotal:
		if r.TotalNS != a.TotalNS {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("total %dns", a.TotalNS),
				Actual:   fmt.Sprintf("total %dns", r.TotalNS),
			}
		}
	case AssertError:
		if r.ErrCode != a.Code {
			actual := "no error"
			if r.ErrCode != "" {
				actual = "error " + r.ErrCode
			}
			return &AssertionError{
				Type:         a.Type,
				Expected:     "error " + a.Code,
				Actual:       actual,
				Instructions: r.Instructions,
			}
		}
	case AssertLevel:
		return assertLevel(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// assertInstructions compares the whole table, reporting the first
// differing instruction.
func assertInstructions(r *Result, a Assertion) error {
	got, want := r.Instructions, a.Instructions
	for i := 0; i < max(len(got), len(want)); i++ {
		switch {
		case i >= len(got):
			return &AssertionError{
				Type:         a.Type,
				Expected:     fmt.Sprintf("[%d] %s", i, want[i]),
				Actual:       "table ends",
				Instructions: got,
			}
		case i >= len(want):
			return &AssertionError{
				Type:         a.Type,
				Expected:     "table ends",
				Actual:       fmt.Sprintf("[%d] %s", i, got[i]),
				Instructions: got,
			}
		case got[i] != want[i]:
			return &AssertionError{
				Type:         a.Type,
				Expected:     fmt.Sprintf("[%d] %s", i, want[i]),
				Actual:       fmt.Sprintf("[%d] %s", i, got[i]),
				Instructions: got,
			}
		}
	}
	return nil
}

func assertLevel(r *Result, a Assertion) error {
	level, err := r.Timeline.LevelAt(a.Channel, float64(a.AtNS))
	if err != nil {
		return err
	}
	if level != a.Level {
		return &AssertionError{
			Type:         a.Type,
			Expected:     fmt.Sprintf("%s=%d at %dns", a.Channel, a.Level, a.AtNS),
			Actual:       fmt.Sprintf("%s=%d", a.Channel, level),
			Instructions: r.Instructions,
		}
	}
	return nil
}

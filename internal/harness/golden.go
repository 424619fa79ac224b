package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pulseseq/internal/ir"
)

// Snapshot is the golden form of a compilation: the scenario name, the
// loop length and the instruction table.
type Snapshot struct {
	ScenarioName string           `json:"scenario_name"`
	TotalNS      int64            `json:"total_ns"`
	Instructions []ir.Instruction `json:"instructions"`
}

// MarshalCanonical renders the snapshot as canonical JSON so golden files
// are byte-stable.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	p := ir.CanonicalProgram(ir.Program{Instructions: s.Instructions})
	return ir.MarshalCanonical(map[string]any{
		"scenario_name": s.ScenarioName,
		"total_ns":      s.TotalNS,
		"instructions":  p["instructions"],
	})
}

// RunWithGolden executes a scenario and compares the compiled table against
// testdata/golden/{scenario.Name}.golden.
//
// Returns an error if the scenario cannot run. Assertion failures and golden
// mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot{
		ScenarioName: scenarioName,
		TotalNS:      result.TotalNS,
		Instructions: result.Instructions,
	}.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Total    int            `json:"total"`
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
	Failures []SuiteFailure `json:"failures,omitempty"`
}

// SuiteFailure is one scenario that failed to load, run or pass.
type SuiteFailure struct {
	Path   string   `json:"path"`
	Errors []string `json:"errors"`
}

// RunDir runs every *.yaml scenario in dir in file-name order.
// A scenario that fails to load is counted as failed, not returned as an
// error, so one bad file does not hide the rest.
func RunDir(dir string) (*SuiteResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	suite := &SuiteResult{}
	for _, path := range paths {
		suite.Total++
		errs := runFile(path)
		if len(errs) == 0 {
			suite.Passed++
			continue
		}
		suite.Failed++
		suite.Failures = append(suite.Failures, SuiteFailure{Path: path, Errors: errs})
	}
	return suite, nil
}

func runFile(path string) []string {
	scenario, err := LoadScenario(path)
	if err != nil {
		return []string{err.Error()}
	}
	result, err := Run(scenario)
	if err != nil {
		return []string{err.Error()}
	}
	if result.Pass {
		return nil
	}
	return result.Errors
}

// Summary formats the suite result as one line.
func (s *SuiteResult) Summary() string {
	return fmt.Sprintf("%d scenarios: %d passed, %d failed", s.Total, s.Passed, s.Failed)
}

package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/pulseseq/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestProgram builds a small loop-closed program whose content
// depends on tau.
func createTestProgram(tau float64) ir.Program {
	return ir.Program{
		Sequence:  "T2seq",
		Args:      []float64{tau, 3000, 1500, 40, 10, 1},
		QuantumNS: 2,
		TotalNS:   int64(tau) + 500,
		Instructions: []ir.Instruction{
			{Mask: 0x08, Op: ir.Continue, Duration: 300},
			{Mask: 0x04, Op: ir.Continue, Duration: tau},
			{Mask: 0x00, Op: ir.Branch, Target: 0, Duration: 200},
		},
	}
}

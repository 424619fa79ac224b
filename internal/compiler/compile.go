package compiler

import (
	"github.com/roach88/pulseseq/internal/ir"
)

// Compile converts a cumulative table into an ordered instruction list.
//
// Instruction i holds States[i] for Times[i+1]-Times[i]. The last
// instruction is a BRANCH whose Target is 0, the index of the first
// instruction; the driver loader replaces it with the hardware address
// assigned to that instruction. The state recorded at the final table time
// is never emitted: the branch returns to the start of the loop instead.
//
// Returns a ConfigError when the table spans no time, and an InvariantError
// when its times are not strictly increasing.
func Compile(tbl Table) ([]ir.Instruction, error) {
	if len(tbl.Times) != len(tbl.States) {
		return nil, ir.NewInvariantError(ir.ErrCodeOrder, "",
			"table has %d times but %d states", len(tbl.Times), len(tbl.States))
	}
	if tbl.Len() < 2 {
		return nil, ir.NewConfigError(ir.ErrCodeEmpty, "", "sequence has zero total duration")
	}

	n := tbl.Len() - 1
	instrs := make([]ir.Instruction, n)
	for i := 0; i < n; i++ {
		d := tbl.Times[i+1] - tbl.Times[i]
		if d <= 0 {
			return nil, ir.NewInvariantError(ir.ErrCodeDuration, "",
				"instruction %d has duration %dns", i, d)
		}
		instrs[i] = ir.Instruction{
			Mask:     tbl.States[i],
			Op:       ir.Continue,
			Target:   0,
			Duration: float64(d),
		}
	}
	instrs[n-1].Op = ir.Branch
	return instrs, nil
}

// Result bundles the intermediate and final products of one compilation.
type Result struct {
	Catalog      EdgeCatalog
	Table        Table
	Instructions []ir.Instruction
}

// CompileChannels runs the full pipeline: catalog, cumulative table and
// instruction list.
func CompileChannels(channels []ir.Channel) (*Result, error) {
	cat, err := Catalog(channels)
	if err != nil {
		return nil, err
	}
	tbl := cat.Cumulative()
	instrs, err := Compile(tbl)
	if err != nil {
		return nil, err
	}
	return &Result{Catalog: cat, Table: tbl, Instructions: instrs}, nil
}

// Sum returns the total duration of an instruction list in nanoseconds.
func Sum(instrs []ir.Instruction) float64 {
	var total float64
	for _, in := range instrs {
		total += in.Duration
	}
	return total
}

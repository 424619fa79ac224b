package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/pulseseq/internal/ir"
)

// marshalInstructions converts an instruction table to canonical JSON TEXT,
// the same form ProgramID hashes.
func marshalInstructions(instrs []ir.Instruction) (string, error) {
	canonical := ir.CanonicalProgram(ir.Program{Instructions: instrs})["instructions"]
	data, err := ir.MarshalCanonical(canonical)
	if err != nil {
		return "", fmt.Errorf("marshal instructions: %w", err)
	}
	return string(data), nil
}

// unmarshalInstructions parses a stored instruction table.
func unmarshalInstructions(data string) ([]ir.Instruction, error) {
	instrs := []ir.Instruction{}
	if err := json.Unmarshal([]byte(data), &instrs); err != nil {
		return nil, fmt.Errorf("unmarshal instructions: %w", err)
	}
	return instrs, nil
}

// marshalArgs stores generator arguments as a JSON array. encoding/json
// writes the shortest representation that parses back to the same float64.
func marshalArgs(args []float64) (string, error) {
	if args == nil {
		args = []float64{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

func unmarshalArgs(data string) ([]float64, error) {
	args := []float64{}
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}

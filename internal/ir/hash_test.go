package ir

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProgram() Program {
	return Program{
		Sequence:  "RabiSeq",
		Args:      []float64{100, 3000, 500},
		QuantumNS: 2,
		TotalNS:   3600,
		Instructions: []Instruction{
			{Mask: 0x2, Op: Continue, Duration: 100},
			{Mask: 0x1, Op: Continue, Duration: 3000},
			{Mask: 0x0, Op: Branch, Target: 0, Duration: 500},
		},
	}
}

func TestProgramIDDeterminism(t *testing.T) {
	id1, err := ProgramID(testProgram())
	require.NoError(t, err)
	id2, err := ProgramID(testProgram())
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
	_, err = hex.DecodeString(id1)
	assert.NoError(t, err)
}

func TestProgramIDChangesWithContent(t *testing.T) {
	base, err := ProgramID(testProgram())
	require.NoError(t, err)

	mutations := map[string]func(*Program){
		"args":     func(p *Program) { p.Args[0] = 102 },
		"sequence": func(p *Program) { p.Sequence = "T1seq" },
		"quantum":  func(p *Program) { p.QuantumNS = 4 },
		"mask":     func(p *Program) { p.Instructions[0].Mask = 0x3 },
		"duration": func(p *Program) { p.Instructions[2].Duration = 502 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := testProgram()
			mutate(&p)
			id, err := ProgramID(p)
			require.NoError(t, err)
			assert.NotEqual(t, base, id)
		})
	}
}

func TestProgramIDRejectsFractionalDuration(t *testing.T) {
	p := testProgram()
	p.Instructions[0].Duration = 100.5

	_, err := ProgramID(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProgramID")
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	assert.NotEqual(t, hashWithDomain("foo", []byte("bar")), hashWithDomain("foob", []byte("ar")))
}

func TestDomainConstants(t *testing.T) {
	assert.Equal(t, "pulseseq/program/v1", DomainProgram)
}

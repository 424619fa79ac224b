package harness

import (
	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/timeline"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Instructions is the compiled table. Empty when compilation failed.
	Instructions []ir.Instruction `json:"instructions"`

	// TotalNS is the loop length of the compiled table.
	TotalNS int64 `json:"total_ns"`

	// ErrCode is the code of the compilation error, if any.
	ErrCode string `json:"error_code,omitempty"`

	// Timeline is the reconstructed waveform set. Nil when compilation failed.
	Timeline *timeline.Timeline `json:"-"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:         true,
		Instructions: []ir.Instruction{},
		Errors:       []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

package device

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// State is the lifecycle state of a Recorder.
type State int

const (
	StateIdle State = iota
	StateProgramming
	StateReady
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProgramming:
		return "programming"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrState is returned when a Recorder call is out of protocol order.
var ErrState = errors.New("call out of order")

// Recorder is an in-memory PulseProgrammer. It enforces the call order a
// board expects and keeps what was programmed.
//
// Base offsets the returned addresses, so tests can tell indices from
// addresses. FailAfter, when positive, makes the FailAfter-th Program call
// return Err.
type Recorder struct {
	Base      int
	FailAfter int
	Err       error

	mu      sync.Mutex
	state   State
	program []ir.Instruction
	calls   int
	starts  int
}

// NewRecorder returns an idle recorder whose first address is base.
func NewRecorder(base int) *Recorder {
	return &Recorder{Base: base}
}

func (r *Recorder) StartProgramming(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed || r.state == StateRunning {
		return fmt.Errorf("start programming while %s: %w", r.state, ErrState)
	}
	r.state = StateProgramming
	r.program = r.program[:0]
	return nil
}

func (r *Recorder) Program(ctx context.Context, in ir.Instruction) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateProgramming {
		return 0, fmt.Errorf("program while %s: %w", r.state, ErrState)
	}
	r.calls++
	if r.FailAfter > 0 && r.calls == r.FailAfter {
		err := r.Err
		if err == nil {
			err = errors.New("injected failure")
		}
		return 0, err
	}
	r.program = append(r.program, in)
	return r.Base + len(r.program) - 1, nil
}

func (r *Recorder) StopProgramming(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateProgramming {
		return fmt.Errorf("stop programming while %s: %w", r.state, ErrState)
	}
	r.state = StateReady
	return nil
}

func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateReady {
		return fmt.Errorf("start while %s: %w", r.state, ErrState)
	}
	r.state = StateRunning
	r.starts++
	return nil
}

func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return fmt.Errorf("stop while %s: %w", r.state, ErrState)
	}
	if r.state == StateRunning {
		r.state = StateReady
	}
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateClosed
	return nil
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Programmed returns a copy of the instructions of the last load, with
// branch targets as hardware addresses.
func (r *Recorder) Programmed() []ir.Instruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.program)
}

// Starts counts successful Start calls.
func (r *Recorder) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

// RecordingSource is an in-memory SignalSource that keeps its settings.
type RecordingSource struct {
	mu         sync.Mutex
	Frequency  float64
	Amplitude  float64
	Modulation sequence.Modulation
	Output     bool
	// Calls lists the setters in call order.
	Calls []string
}

func (s *RecordingSource) SetFrequency(ctx context.Context, hz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Frequency = hz
	s.Calls = append(s.Calls, "frequency")
	return nil
}

func (s *RecordingSource) SetAmplitude(ctx context.Context, dbm float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Amplitude = dbm
	s.Calls = append(s.Calls, "amplitude")
	return nil
}

func (s *RecordingSource) SetModulation(ctx context.Context, mode sequence.Modulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Modulation = mode
	s.Calls = append(s.Calls, "modulation")
	return nil
}

func (s *RecordingSource) SetOutput(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Output = on
	s.Calls = append(s.Calls, "output")
	return nil
}

// ErrTimeout is returned by RecordingDigitizer when fewer samples are queued
// than a read asks for.
var ErrTimeout = errors.New("digitizer read timed out")

// RecordingDigitizer is an in-memory Digitizer. Read hands out queued
// Samples in order and records each request.
type RecordingDigitizer struct {
	mu      sync.Mutex
	Samples []float64
	// Reads lists the requested sample counts in call order.
	Reads []int
}

func (d *RecordingDigitizer) Read(ctx context.Context, n int, timeout time.Duration) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Reads = append(d.Reads, n)
	if n > len(d.Samples) {
		return nil, fmt.Errorf("read %d samples, %d available after %s: %w", n, len(d.Samples), timeout, ErrTimeout)
	}
	out := slices.Clone(d.Samples[:n])
	d.Samples = d.Samples[n:]
	return out, nil
}

package device

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/pulseseq/internal/ir"
	"github.com/roach88/pulseseq/internal/sequence"
)

// MaxPowerDBm is the highest output power the microwave chain tolerates.
const MaxPowerDBm = 16.5

// SignalSource is a microwave generator.
type SignalSource interface {
	SetFrequency(ctx context.Context, hz float64) error
	SetAmplitude(ctx context.Context, dbm float64) error
	SetModulation(ctx context.Context, mode sequence.Modulation) error
	SetOutput(ctx context.Context, on bool) error
}

// Digitizer reads n samples from the photon counter, waiting at most
// timeout for them to arrive.
type Digitizer interface {
	Read(ctx context.Context, n int, timeout time.Duration) ([]float64, error)
}

// ModulationFor returns the modulation mode the named sequence needs.
func ModulationFor(name string) (sequence.Modulation, error) {
	g, err := sequence.Lookup(name)
	if err != nil {
		return "", err
	}
	return g.Modulation, nil
}

// PrepareSource configures src for a sequence: modulation first, then
// frequency and power, then the output is enabled.
func PrepareSource(ctx context.Context, src SignalSource, name string, hz, dbm float64) error {
	if dbm > MaxPowerDBm {
		return ir.NewConfigError(ir.ErrCodeRange, "microwave.power_dbm",
			"%g dBm exceeds the %g dBm limit", dbm, MaxPowerDBm)
	}
	mode, err := ModulationFor(name)
	if err != nil {
		return err
	}
	if err := src.SetModulation(ctx, mode); err != nil {
		return fmt.Errorf("set modulation %s: %w", mode, err)
	}
	if err := src.SetFrequency(ctx, hz); err != nil {
		return fmt.Errorf("set frequency: %w", err)
	}
	if err := src.SetAmplitude(ctx, dbm); err != nil {
		return fmt.Errorf("set amplitude: %w", err)
	}
	if err := src.SetOutput(ctx, true); err != nil {
		return fmt.Errorf("enable output: %w", err)
	}
	return nil
}

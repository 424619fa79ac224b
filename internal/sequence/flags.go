package sequence

// Short-pulse flag patterns. Setting one of these alongside an output bit
// makes the generator emit a pulse N clock periods long in place of the
// instruction's own duration.
const (
	OnePeriod   uint32 = 0x200000
	TwoPeriod   uint32 = 0x400000
	ThreePeriod uint32 = 0x600000
	FourPeriod  uint32 = 0x800000
	FivePeriod  uint32 = 0xA00000
)

// FlagMask covers every bit a short-pulse flag may set.
const FlagMask uint32 = 0xE00000

// ShortPulseFlag returns the flag pattern for a pulse of durNS on hardware
// with the given quantum: floor(dur/quantum) periods, clamped to 1..5. A
// positive request shorter than one period is emitted as one period, the
// shortest pulse the hardware can produce.
func ShortPulseFlag(durNS float64, quantumNS int64) uint32 {
	n := uint32(durNS / float64(quantumNS))
	if n < 1 {
		n = 1
	}
	if n > 5 {
		n = 5
	}
	return n * OnePeriod
}

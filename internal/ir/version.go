package ir

// Version constants for the compiled program format.
const (
	// ProgramVersion is the compiled program schema version.
	ProgramVersion = "1"

	// CompilerVersion is the pulseseq compiler version.
	CompilerVersion = "0.1.0"
)

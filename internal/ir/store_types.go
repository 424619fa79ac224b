package ir

// NOTE: These are store records, not compiler values. Programs are
// content-addressed by ProgramID; runs use generated ids.

// Run is one recorded scan: an experiment compiled point by point.
type Run struct {
	ID         string `json:"id"`
	Experiment string `json:"experiment"` // experiment file path
	Sequence   string `json:"sequence"`
	Points     int    `json:"points"`
	Seq        int64  `json:"seq"` // logical clock
}

// RunPoint links a scan point of a run to the program compiled for it.
type RunPoint struct {
	RunID     string  `json:"run_id"`
	Index     int     `json:"index"`
	ScanValue float64 `json:"scan_value"`
	ProgramID string  `json:"program_id"`
}

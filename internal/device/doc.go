// Package device is the boundary between compiled programs and lab
// hardware.
//
// Drivers implement PulseProgrammer, SignalSource and Digitizer. This
// package never talks to hardware itself; it owns the loading protocol
// (branch target rewriting, start after programming) and exclusive access
// through Session. Recorder and RecordingSource are in-memory drivers for
// tests and dry runs.
//
// Driver errors are returned wrapped and never retried: a failed load
// leaves the device in an unknown state that the operator must inspect.
package device

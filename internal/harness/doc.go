// Package harness runs compilation scenarios: YAML files that describe
// channels or a named sequence and the instruction table they must compile
// to.
//
// A scenario supplies exactly one input:
//   - channels: explicit pulse lists, compiled with compiler.CompileChannels
//   - sequence: a registered generator name and its positional arguments
//
// Assertions check the compiled table, the total length, expected error
// codes, and output levels on the reconstructed timeline. Golden files
// under testdata/golden hold canonical JSON of the compiled table.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness

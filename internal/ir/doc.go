// Package ir provides the value types shared by the pulse-sequence compiler.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - All times are int64 nanoseconds; instruction durations cross the
//     driver boundary as float64 nanoseconds
//   - Channels and programs are values, built fresh per compilation
//   - All JSON tags use snake_case
package ir

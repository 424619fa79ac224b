// Package store provides SQLite-backed storage for compiled pulse programs
// and the scan runs that used them.
//
// The store holds three tables:
//   - programs: compiled instruction tables, content-addressed by ir.ProgramID
//   - runs: one row per scan, keyed by a generated UUIDv7
//   - run_points: the program used at each scan point
//
// # Ordering
//
// Records carry a logical seq from Clock, never wall time. Listings use
// ORDER BY seq ASC, id COLLATE BINARY ASC so they are identical across
// machines. The clock resumes after the highest stored seq on Open.
//
// # Idempotency
//
// Programs are written with ON CONFLICT(id) DO NOTHING. A scan that revisits
// a parameter value reuses the stored program row.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

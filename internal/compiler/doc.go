// Package compiler turns per-channel pulse descriptions into a loop-closed
// pulse-generator instruction table.
//
// Compilation runs in three steps:
//
//  1. Catalog merges every channel's rising and falling edges into an
//     EdgeCatalog, XOR-ing the channel mask into the entry for each edge
//     time. XOR (toggle semantics) makes a zero-length pulse a no-op and lets
//     a channel re-trigger at the instant of its own previous fall.
//  2. EdgeCatalog.Cumulative walks the catalog in time order and produces
//     the absolute output state for each interval.
//  3. Compile emits one instruction per interval. The last instruction
//     branches back to the first, so the table runs as an infinite
//     hardware loop.
//
// Every function here is a pure transformation over fresh local values.
// They may be called concurrently from independent scan points.
package compiler

// Package stats rebuilds the "total collection value over time" curve.
//
// No historical prices are stored, so the curve is reconstructed backward
// from the current state: every change log entry is valued at the item's
// current unit cost, the in-window deltas are subtracted from today's total
// to get the value at the window start, and the deltas are then replayed
// forward in fixed-width buckets. The result is an approximation that uses
// today's price for all of history.
//
// The pipeline stages are plain functions (LoadSnapshot, ResolveDeltas,
// AlignStart, PickBucketWidth, Bucketize, Accumulate, Densify) composed by
// Compute. Service adds the store reads, caching and stale-request handling.
package stats

package models

import "time"

// VolatilityRecord is the per-asset cache entry held by the registry.
//
// Fields:
//   - Value: the last successfully computed volatility figure (percent).
//     Only meaningful when HasValue is true.
//   - HasValue: whether any computation has ever succeeded for this asset.
//   - LastUpdated: timestamp of the last successful computation.
//   - LastError: the most recent refresh failure, or nil if the most
//     recent refresh attempt succeeded.
//   - WindowEnd: the date through which the current value's input window
//     extends. Used by the refresh scheduler to roll the window forward.
//
// A failed refresh sets LastError but never clears Value or LastUpdated:
// stale-but-known-good data is preferred over no data.
type VolatilityRecord struct {
	Value       float64
	HasValue    bool
	LastUpdated time.Time
	LastError   error
	WindowEnd   time.Time
}

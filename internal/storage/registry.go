package storage

import (
	"sync"
	"time"

	"github.com/guttosm/volpulse/internal/domain/models"
)

// Registry is the rolling volatility cache: a concurrency-safe mapping from
// asset address to its VolatilityRecord.
//
// Contract:
//   - An asset appears in the registry iff it has been requested at least
//     once since process start. Entries are never evicted.
//   - All operations are atomic with respect to each other.
//   - Write/WriteError for different assets never block one another: the
//     registry holds one lock per record, the shared map lock is only taken
//     for insert/lookup.
type Registry interface {
	// GetOrRegister returns the asset's record, creating an empty one if the
	// asset was untracked. The second return reports whether this call
	// performed the registration.
	GetOrRegister(asset string) (models.VolatilityRecord, bool)

	// Read returns a snapshot of the asset's record, or false if untracked.
	Read(asset string) (models.VolatilityRecord, bool)

	// Write records a successful computation: sets the value and window end,
	// stamps LastUpdated, and clears LastError.
	Write(asset string, value float64, windowEnd time.Time)

	// WriteError records a failed refresh attempt. Value, HasValue and
	// LastUpdated are left untouched.
	WriteError(asset string, err error)

	// ListTrackedAssets returns a snapshot of all tracked asset addresses.
	ListTrackedAssets() []string
}

// record pairs a VolatilityRecord with its own lock so that refreshes of
// different assets never serialize on a shared mutex.
type record struct {
	mu   sync.RWMutex
	data models.VolatilityRecord
}

type registry struct {
	mu      sync.RWMutex
	records map[string]*record
	now     func() time.Time
}

// NewRegistry creates an empty in-memory registry. State is process-lifetime
// only; a restart discards every cached value.
func NewRegistry() Registry {
	return &registry{
		records: make(map[string]*record),
		now:     time.Now,
	}
}

func (r *registry) GetOrRegister(asset string) (models.VolatilityRecord, bool) {
	r.mu.RLock()
	rec, ok := r.records[asset]
	r.mu.RUnlock()
	if ok {
		return rec.snapshot(), false
	}

	r.mu.Lock()
	rec, ok = r.records[asset]
	if !ok {
		rec = &record{}
		r.records[asset] = rec
	}
	r.mu.Unlock()

	return rec.snapshot(), !ok
}

func (r *registry) Read(asset string) (models.VolatilityRecord, bool) {
	r.mu.RLock()
	rec, ok := r.records[asset]
	r.mu.RUnlock()
	if !ok {
		return models.VolatilityRecord{}, false
	}
	return rec.snapshot(), true
}

func (r *registry) Write(asset string, value float64, windowEnd time.Time) {
	rec := r.getOrCreate(asset)
	rec.mu.Lock()
	rec.data.Value = value
	rec.data.HasValue = true
	rec.data.LastUpdated = r.now()
	rec.data.LastError = nil
	rec.data.WindowEnd = windowEnd
	rec.mu.Unlock()
}

func (r *registry) WriteError(asset string, err error) {
	rec := r.getOrCreate(asset)
	rec.mu.Lock()
	rec.data.LastError = err
	rec.mu.Unlock()
}

func (r *registry) ListTrackedAssets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]string, 0, len(r.records))
	for asset := range r.records {
		assets = append(assets, asset)
	}
	return assets
}

func (r *registry) getOrCreate(asset string) *record {
	r.mu.RLock()
	rec, ok := r.records[asset]
	r.mu.RUnlock()
	if ok {
		return rec
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok = r.records[asset]
	if !ok {
		rec = &record{}
		r.records[asset] = rec
	}
	return rec
}

// snapshot copies the record under its read lock so callers can never
// observe a partially written entry.
func (rec *record) snapshot() models.VolatilityRecord {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return rec.data
}

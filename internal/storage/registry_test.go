package storage

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func newTestRegistry(ts time.Time) *registry {
	return &registry{
		records: make(map[string]*record),
		now:     fixedClock(ts),
	}
}

func TestGetOrRegister(t *testing.T) {
	r := newTestRegistry(time.Now())

	rec, isNew := r.GetOrRegister("SOL")
	if !isNew {
		t.Fatalf("first registration should report new")
	}
	if rec.HasValue || rec.LastError != nil {
		t.Fatalf("fresh record must be empty: %+v", rec)
	}

	_, isNew = r.GetOrRegister("SOL")
	if isNew {
		t.Fatalf("second registration should not report new")
	}
}

func TestReadUntracked(t *testing.T) {
	r := newTestRegistry(time.Now())
	if _, ok := r.Read("UNKNOWN"); ok {
		t.Fatalf("read of untracked asset must report not found")
	}
}

func TestWriteThenRead(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	r := newTestRegistry(now)

	r.GetOrRegister("SOL")
	r.Write("SOL", 2.35, windowEnd)

	rec, ok := r.Read("SOL")
	if !ok {
		t.Fatalf("asset should be tracked")
	}
	if !rec.HasValue || rec.Value != 2.35 {
		t.Fatalf("unexpected value: %+v", rec)
	}
	if !rec.LastUpdated.Equal(now) || !rec.WindowEnd.Equal(windowEnd) {
		t.Fatalf("unexpected timestamps: %+v", rec)
	}
	if rec.LastError != nil {
		t.Fatalf("write must clear last error")
	}
}

func TestWriteError_PreservesValue(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	windowEnd := now.Truncate(24 * time.Hour)
	r := newTestRegistry(now)

	r.GetOrRegister("SOL")
	r.Write("SOL", 1.5, windowEnd)

	refreshErr := errors.New("rate limited")
	r.WriteError("SOL", refreshErr)

	rec, _ := r.Read("SOL")
	if !rec.HasValue || rec.Value != 1.5 {
		t.Fatalf("failed refresh must not alter value: %+v", rec)
	}
	if !rec.LastUpdated.Equal(now) {
		t.Fatalf("failed refresh must not alter lastUpdated: %+v", rec)
	}
	if !errors.Is(rec.LastError, refreshErr) {
		t.Fatalf("lastError not recorded: %v", rec.LastError)
	}

	// A later success clears the error again.
	r.Write("SOL", 1.6, windowEnd)
	rec, _ = r.Read("SOL")
	if rec.LastError != nil || rec.Value != 1.6 {
		t.Fatalf("successful write must clear lastError: %+v", rec)
	}
}

func TestWriteError_DoesNotAffectOtherAssets(t *testing.T) {
	now := time.Now()
	r := newTestRegistry(now)
	r.Write("A", 1.0, now)
	r.Write("B", 2.0, now)

	r.WriteError("A", errors.New("boom"))

	recB, _ := r.Read("B")
	if recB.LastError != nil || recB.Value != 2.0 {
		t.Fatalf("error on A leaked into B: %+v", recB)
	}
}

func TestListTrackedAssets(t *testing.T) {
	r := newTestRegistry(time.Now())
	if got := r.ListTrackedAssets(); len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}

	r.GetOrRegister("A")
	r.GetOrRegister("B")
	r.GetOrRegister("A") // no duplicate

	got := r.ListTrackedAssets()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("unexpected tracked set: %v", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTestRegistry(time.Now())
	assets := []string{"A", "B", "C", "D", "E"}
	for _, a := range assets {
		r.GetOrRegister(a)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, a := range assets {
			wg.Add(3)
			go func(a string, v float64) {
				defer wg.Done()
				r.Write(a, v, time.Now())
			}(a, float64(i))
			go func(a string) {
				defer wg.Done()
				if i%7 == 0 {
					r.WriteError(a, errors.New("transient"))
				}
				_, _ = r.Read(a)
			}(a)
			go func(a string) {
				defer wg.Done()
				_ = r.ListTrackedAssets()
				_, _ = r.GetOrRegister(a)
			}(a)
		}
	}
	wg.Wait()

	for _, a := range assets {
		rec, ok := r.Read(a)
		if !ok || !rec.HasValue {
			t.Fatalf("asset %s lost its value under concurrency: %+v", a, rec)
		}
	}
}

package reliability

import (
	"testing"
	"time"

	"github.com/robertschaub/factharbor/internal/cache"
	"github.com/robertschaub/factharbor/internal/model"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(cache.NewMemoryCache(time.Hour, time.Minute), 90)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newMemoryStore(t)

	rec := &model.SourceCredibilityRecord{
		Domain:      "example.org",
		Score:       0.8,
		Confidence:  0.9,
		EvaluatedAt: time.Now().UTC(),
		TTLDays:     90,
	}
	if err := store.Put(rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found := store.Get("example.org")
	if !found {
		t.Fatal("record not found after Put")
	}
	if got.Score != 0.8 || got.Confidence != 0.9 {
		t.Errorf("roundtrip record = %+v", got)
	}
}

func TestStore_KnownUnknown(t *testing.T) {
	store := newMemoryStore(t)

	if err := store.PutUnknown("obscure.example"); err != nil {
		t.Fatalf("PutUnknown: %v", err)
	}

	rec, found := store.Get("obscure.example")
	if !found {
		t.Error("known-unknown should be found")
	}
	if rec != nil {
		t.Errorf("known-unknown record = %+v, want nil", rec)
	}
}

func TestStore_NeverResolved(t *testing.T) {
	store := newMemoryStore(t)

	if _, found := store.Get("fresh.example"); found {
		t.Error("never-resolved domain should not be found")
	}
}

func TestStore_ExpiredRecordIsAMiss(t *testing.T) {
	store := newMemoryStore(t)

	stale := &model.SourceCredibilityRecord{
		Domain:      "stale.example",
		Score:       0.8,
		Confidence:  0.9,
		EvaluatedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
		TTLDays:     90,
	}
	if err := store.Put(stale); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, found := store.Get("stale.example"); found {
		t.Error("expired record should be treated as a miss so it gets re-evaluated")
	}
}

func TestStore_DiskBacked(t *testing.T) {
	dir := t.TempDir()
	disk := cache.NewDiskCache(dir, time.Hour)
	store := NewStore(disk, 90)

	rec := &model.SourceCredibilityRecord{
		Domain:      "example.org",
		Score:       0.75,
		Confidence:  0.85,
		EvaluatedAt: time.Now().UTC(),
		TTLDays:     90,
	}
	if err := store.Put(rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A second store over the same directory sees the record: this is the
	// cross-run sharing path.
	reopened := NewStore(cache.NewDiskCache(dir, time.Hour), 90)
	got, found := reopened.Get("example.org")
	if !found || got == nil {
		t.Fatal("record not visible through a second disk-backed store")
	}
	if got.Score != 0.75 {
		t.Errorf("score = %v, want 0.75", got.Score)
	}
}

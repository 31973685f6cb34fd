package reliability

import (
	"encoding/json"
	"time"

	"github.com/robertschaub/factharbor/internal/cache"
	"github.com/robertschaub/factharbor/internal/model"
)

// Store is the typed durable-cache layer: domain -> credibility record.
// It is the only state shared across concurrent analysis runs; writes are
// atomic per domain and last-write-wins, which is acceptable because
// evaluation is idempotent per domain within a TTL window.
//
// A stored entry may be a known-unknown: the domain was looked at and
// deliberately not scored (unimportant, or evaluation rejected). Those are
// kept so repeat lookups do not re-trigger evaluation.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

type storedEntry struct {
	Unknown bool                           `json:"unknown,omitempty"`
	Record  *model.SourceCredibilityRecord `json:"record,omitempty"`
}

// NewStore wraps a cache with record marshaling and the configured TTL
func NewStore(c cache.Cache, ttlDays int) *Store {
	if ttlDays <= 0 {
		ttlDays = 90
	}
	return &Store{
		cache: c,
		ttl:   time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Get returns the record for a domain. found=false means the domain has
// never been resolved (or its entry expired); found=true with a nil record
// means known-unknown.
func (s *Store) Get(domain string) (rec *model.SourceCredibilityRecord, found bool) {
	data, ok := s.cache.Get(cache.Key(domain))
	if !ok {
		return nil, false
	}

	var entry storedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.Unknown {
		return nil, true
	}
	if entry.Record == nil || entry.Record.Expired(time.Now()) {
		return nil, false
	}
	return entry.Record, true
}

// Put persists an accepted record
func (s *Store) Put(rec *model.SourceCredibilityRecord) error {
	data, err := json.Marshal(storedEntry{Record: rec})
	if err != nil {
		return err
	}
	return s.cache.Set(cache.Key(rec.Domain), data, s.ttl)
}

// PutUnknown persists a known-unknown marker for a domain
func (s *Store) PutUnknown(domain string) error {
	data, err := json.Marshal(storedEntry{Unknown: true})
	if err != nil {
		return err
	}
	return s.cache.Set(cache.Key(domain), data, s.ttl)
}

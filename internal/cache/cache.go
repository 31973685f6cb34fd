package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the storage interface behind the durable credibility cache.
// Implementations must tolerate concurrent readers and writers; writes are
// atomic per key (last write wins).
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a domain
func Key(domain string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(domain)))
	return "factharbor:v1:" + hex.EncodeToString(hash[:])
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache provides optional result caching for processed requests. The default
// deployment uses the no-op implementation, which keeps the gateway fully
// stateless.
type Cache interface {
	// GetResult retrieves a cached result by key. Returns nil on miss.
	GetResult(ctx context.Context, key string) (*Result, error)

	// SetResult stores a result with TTL.
	SetResult(ctx context.Context, key string, result *Result, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Result is a cached processed response.
type Result struct {
	ProcessedText string `json:"processed_text"`
}

// Key derives a deterministic cache key from the dispatch coordinates.
func Key(provider, action, content string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(action))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

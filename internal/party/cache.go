package party

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

// Cache keeps crate terms in Redis so every settlement run does not hit the
// database for the same counterparties.
type Cache struct {
	R   *redis.Client
	TTL time.Duration
}

// NewCache constructs a cache with a sane TTL default.
func NewCache(r *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{R: r, TTL: ttl}
}

func termsKey(kind Kind, serial int64) string {
	return fmt.Sprintf("party:terms:%s:%d", kind, serial)
}

// Get returns the cached terms and whether the key was present. Cache errors
// are treated as misses.
func (c *Cache) Get(ctx context.Context, kind Kind, serial int64) (settlement.CrateTerms, bool) {
	if c == nil || c.R == nil {
		return nil, false
	}
	raw, err := c.R.Get(ctx, termsKey(kind, serial)).Bytes()
	if err != nil {
		return nil, false
	}
	var terms settlement.CrateTerms
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, false
	}
	return terms, true
}

// Set stores the terms under the party's key.
func (c *Cache) Set(ctx context.Context, kind Kind, serial int64, terms settlement.CrateTerms) {
	if c == nil || c.R == nil {
		return
	}
	if terms == nil {
		terms = settlement.CrateTerms{}
	}
	data, err := json.Marshal(terms)
	if err != nil {
		return
	}
	_ = c.R.Set(ctx, termsKey(kind, serial), data, c.TTL).Err()
}

// Invalidate drops the cached terms after a write.
func (c *Cache) Invalidate(ctx context.Context, kind Kind, serial int64) {
	if c == nil || c.R == nil {
		return
	}
	_ = c.R.Del(ctx, termsKey(kind, serial)).Err()
}

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is the read-through surface the ledger service depends on.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	// DeleteFunc removes every entry whose key matches and returns how many went.
	DeleteFunc(match func(K) bool) int
	Purge()
	Size() int
}

// Cleaner is implemented by caches with expiring entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically evicts expired entries from registered caches.
type Janitor struct {
	caches []Cleaner
}

func NewJanitor(caches ...Cleaner) *Janitor {
	return &Janitor{caches: caches}
}

// Run blocks until ctx is done, sweeping every interval.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := j.Sweep()
			if cleaned > 0 {
				slog.DebugContext(ctx, "Expired cache entries removed", "component", "cache", "count", cleaned)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one cleanup pass and returns the number of removed entries.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}

package main

import (
	"sync"
	"time"
)

// Anti-spam tuning, kept as-is from the hosted bot.
const (
	rateLimitWindow = 6 * time.Second
	rateLimitMax    = 7
)

type rateKey struct {
	guildID string
	userID  string
}

// RateLimiter is a sliding-window hit counter keyed by (guild, user).
// Expired hits are evicted lazily on each access.
type RateLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[rateKey][]time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		now:     time.Now,
		buckets: make(map[rateKey][]time.Time),
	}
}

// Hit records one event for the given sender and reports whether the sender
// is now over the limit. Every call both records and reports; there is no
// check-only variant.
func (r *RateLimiter) Hit(guildID, userID string) bool {
	now := r.now()
	key := rateKey{guildID, userID}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.buckets[key]
	cut := 0
	for cut < len(bucket) && now.Sub(bucket[cut]) > rateLimitWindow {
		cut++
	}
	bucket = append(bucket[cut:], now)
	r.buckets[key] = bucket

	return len(bucket) >= rateLimitMax
}

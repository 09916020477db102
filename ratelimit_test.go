package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(start time.Time) (*RateLimiter, *time.Time) {
	now := start
	r := NewRateLimiter()
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRateLimiterTripsOnSeventhHit(t *testing.T) {
	r, _ := newTestLimiter(time.Unix(1000, 0))

	for i := 0; i < rateLimitMax-1; i++ {
		assert.False(t, r.Hit("g1", "u1"), "hit %d should pass", i+1)
	}
	assert.True(t, r.Hit("g1", "u1"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	r, now := newTestLimiter(time.Unix(1000, 0))

	for i := 0; i < rateLimitMax; i++ {
		r.Hit("g1", "u1")
	}

	// everything recorded so far falls out of the window
	*now = now.Add(rateLimitWindow + time.Second)
	assert.False(t, r.Hit("g1", "u1"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	r, _ := newTestLimiter(time.Unix(1000, 0))

	for i := 0; i < rateLimitMax; i++ {
		r.Hit("g1", "u1")
	}

	assert.False(t, r.Hit("g1", "u2"))
	assert.False(t, r.Hit("g2", "u1"))
	assert.True(t, r.Hit("g1", "u1"))
}

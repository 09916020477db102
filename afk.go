package main

import (
	"sync"
	"time"
)

// AfkStatus records why and since when a member is away.
type AfkStatus struct {
	Reason string
	Since  time.Time
}

// AfkStore tracks away members per (guild, user).
type AfkStore struct {
	mu      sync.Mutex
	entries map[rateKey]AfkStatus
}

func NewAfkStore() *AfkStore {
	return &AfkStore{entries: make(map[rateKey]AfkStatus)}
}

func (a *AfkStore) Set(guildID, userID, reason string) {
	a.mu.Lock()
	a.entries[rateKey{guildID, userID}] = AfkStatus{Reason: reason, Since: time.Now()}
	a.mu.Unlock()
}

func (a *AfkStore) Get(guildID, userID string) (AfkStatus, bool) {
	a.mu.Lock()
	st, ok := a.entries[rateKey{guildID, userID}]
	a.mu.Unlock()
	return st, ok
}

// Clear removes the mark and reports whether one was set.
func (a *AfkStore) Clear(guildID, userID string) bool {
	key := rateKey{guildID, userID}

	a.mu.Lock()
	_, ok := a.entries[key]
	delete(a.entries, key)
	a.mu.Unlock()
	return ok
}

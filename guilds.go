package main

import (
	"sort"
	"sync"
)

// GuildSnapshot is what the bot remembers about a guild it is in.
type GuildSnapshot struct {
	ID          string
	Name        string
	MemberCount int
}

// GuildRegistry caches guild snapshots, maintained from join and leave
// events. Updates are full replacements, never partial merges.
type GuildRegistry struct {
	mu     sync.Mutex
	guilds map[string]GuildSnapshot
}

func NewGuildRegistry() *GuildRegistry {
	return &GuildRegistry{guilds: make(map[string]GuildSnapshot)}
}

func (g *GuildRegistry) Upsert(snap GuildSnapshot) {
	g.mu.Lock()
	g.guilds[snap.ID] = snap
	g.mu.Unlock()
}

func (g *GuildRegistry) Get(id string) (GuildSnapshot, bool) {
	g.mu.Lock()
	snap, ok := g.guilds[id]
	g.mu.Unlock()
	return snap, ok
}

func (g *GuildRegistry) Remove(id string) {
	g.mu.Lock()
	delete(g.guilds, id)
	g.mu.Unlock()
}

// Totals returns the guild count and the member count summed over all
// current snapshots.
func (g *GuildRegistry) Totals() (guilds, users int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, snap := range g.guilds {
		users += snap.MemberCount
	}
	return len(g.guilds), users
}

// List returns the snapshots sorted by name, for stable command output.
func (g *GuildRegistry) List() []GuildSnapshot {
	g.mu.Lock()
	out := make([]GuildSnapshot, 0, len(g.guilds))
	for _, snap := range g.guilds {
		out = append(out, snap)
	}
	g.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

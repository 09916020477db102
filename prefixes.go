package main

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"unicode"

	"github.com/bwmarrin/lit"
	"github.com/goccy/go-json"
)

// On-disk shape of the prefix configuration. Guild ids are decimal strings.
type prefixDocument struct {
	DefaultPrefix string            `json:"default_prefix"`
	GuildPrefix   map[string]string `json:"guild_prefix"`
}

// PrefixStore holds the process default prefix and per-guild overrides.
// Persistence is best effort: the in-memory state stays authoritative and a
// failed flush is retried by the next one.
type PrefixStore struct {
	mu        sync.Mutex
	def       string
	overrides map[string]string

	// flushMu serializes file writes, since a mutation-triggered flush can
	// race the periodic one on the same path.
	flushMu sync.Mutex
}

func NewPrefixStore(def string) *PrefixStore {
	return &PrefixStore{
		def:       def,
		overrides: make(map[string]string),
	}
}

// Resolve returns the override for the guild when present, else the default.
func (p *PrefixStore) Resolve(guildID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if o, ok := p.overrides[guildID]; ok && o != "" {
		return o
	}
	return p.def
}

// SetOverride validates and stores a per-guild prefix. Invalid input leaves
// the store untouched and returns false.
func (p *PrefixStore) SetOverride(guildID, prefix string) bool {
	if !validPrefix(prefix) {
		return false
	}

	p.mu.Lock()
	p.overrides[guildID] = prefix
	p.mu.Unlock()
	return true
}

// A prefix is 1 to 8 bytes with no whitespace.
func validPrefix(s string) bool {
	if len(s) < 1 || len(s) > 8 {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Load reads the persisted document. A missing or malformed file keeps the
// defaults; malformed entries are skipped individually.
func (p *PrefixStore) Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var doc prefixDocument
	if err = json.Unmarshal(data, &doc); err != nil {
		lit.Warn("Can't parse prefix file %s, keeping defaults: %s", path, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if validPrefix(doc.DefaultPrefix) {
		p.def = doc.DefaultPrefix
	}
	for gid, prefix := range doc.GuildPrefix {
		if _, err = strconv.ParseUint(gid, 10, 64); err != nil {
			continue
		}
		if !validPrefix(prefix) {
			continue
		}
		p.overrides[gid] = prefix
	}
}

// Flush writes the whole document. The snapshot is taken under the lock, the
// file I/O happens outside it.
func (p *PrefixStore) Flush(path string) {
	p.mu.Lock()
	doc := prefixDocument{
		DefaultPrefix: p.def,
		GuildPrefix:   make(map[string]string, len(p.overrides)),
	}
	for gid, prefix := range p.overrides {
		doc.GuildPrefix[gid] = prefix
	}
	p.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		lit.Error("Can't marshal prefix file, %s", err)
		return
	}

	p.flushMu.Lock()
	defer p.flushMu.Unlock()

	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	// Write-then-rename so a reader never sees a half-written document.
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		lit.Warn("Can't write prefix file %s, %s", tmp, err)
		return
	}
	if err = os.Rename(tmp, path); err != nil {
		lit.Warn("Can't replace prefix file %s, %s", path, err)
	}
}

package main

import (
	"sync"

	"github.com/google/uuid"
)

const (
	incidentInvestigating = "investigating"
	incidentResolved      = "resolved"

	// How many incidents the read path exposes at most.
	incidentListMax = 50
)

// Incident is a single service-health event. Incidents are append-only; they
// transition from investigating to resolved and are never deleted.
type Incident struct {
	ID         string  `json:"id"`
	Service    string  `json:"service"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	StartedAt  string  `json:"startedAt"`
	ResolvedAt *string `json:"resolvedAt"`
}

// IncidentLog keeps at most one open incident per service key.
type IncidentLog struct {
	mu    sync.Mutex
	items []Incident
}

func NewIncidentLog() *IncidentLog {
	return &IncidentLog{}
}

// Open appends a new investigating incident for the service, unless one is
// already open for it.
func (l *IncidentLog) Open(service, title string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].Service == service && l.items[i].ResolvedAt == nil {
			return
		}
	}

	l.items = append(l.items, Incident{
		ID:        uuid.NewString(),
		Service:   service,
		Title:     title,
		Status:    incidentInvestigating,
		StartedAt: isoNow(),
	})
}

// Resolve closes the most recently opened incident for the service. No-op
// when none is open.
func (l *IncidentLog) Resolve(service string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].Service == service && l.items[i].ResolvedAt == nil {
			resolved := isoNow()
			l.items[i].Status = incidentResolved
			l.items[i].ResolvedAt = &resolved
			return
		}
	}
}

// List returns up to limit incidents, most recent first.
func (l *IncidentLog) List(limit int) []Incident {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Incident, 0, limit)
	for i := len(l.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.items[i])
	}
	return out
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentOpenDeduplicates(t *testing.T) {
	l := NewIncidentLog()

	l.Open("gateway", "Discord gateway disconnected")
	l.Open("gateway", "Discord gateway disconnected")
	l.Open("gateway", "something else")

	list := l.List(incidentListMax)
	require.Len(t, list, 1)
	assert.Equal(t, "Discord gateway disconnected", list[0].Title)
	assert.Equal(t, incidentInvestigating, list[0].Status)
	assert.Nil(t, list[0].ResolvedAt)
	assert.NotEmpty(t, list[0].ID)
}

func TestIncidentResolveClosesNewestOpen(t *testing.T) {
	l := NewIncidentLog()

	l.Open("gateway", "first")
	l.Resolve("gateway")
	l.Open("gateway", "second")
	l.Resolve("gateway")
	// no open incident left, this must be a no-op
	l.Resolve("gateway")

	list := l.List(incidentListMax)
	require.Len(t, list, 2)
	for _, in := range list {
		assert.Equal(t, incidentResolved, in.Status)
		require.NotNil(t, in.ResolvedAt)
		assert.NotEmpty(t, *in.ResolvedAt)
	}
}

func TestIncidentResolveAllowsReopening(t *testing.T) {
	l := NewIncidentLog()

	l.Open("api", "API unreachable")
	l.Resolve("api")
	l.Open("api", "API unreachable")

	list := l.List(incidentListMax)
	require.Len(t, list, 2)
	assert.Equal(t, incidentInvestigating, list[0].Status)
	assert.Equal(t, incidentResolved, list[1].Status)
}

func TestIncidentListNewestFirstAndCapped(t *testing.T) {
	l := NewIncidentLog()

	l.Open("a", "one")
	l.Resolve("a")
	l.Open("b", "two")
	l.Resolve("b")
	l.Open("c", "three")

	list := l.List(2)
	require.Len(t, list, 2)
	assert.Equal(t, "three", list[0].Title)
	assert.Equal(t, "two", list[1].Title)
}

func TestIncidentListEmpty(t *testing.T) {
	l := NewIncidentLog()
	assert.NotNil(t, l.List(incidentListMax))
	assert.Empty(t, l.List(incidentListMax))
}

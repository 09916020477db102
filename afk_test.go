package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfkStore(t *testing.T) {
	a := NewAfkStore()

	_, ok := a.Get("g", "u")
	assert.False(t, ok)

	a.Set("g", "u", "lunch")
	st, ok := a.Get("g", "u")
	require.True(t, ok)
	assert.Equal(t, "lunch", st.Reason)
	assert.False(t, st.Since.IsZero())

	// same user in another guild is a separate mark
	_, ok = a.Get("g2", "u")
	assert.False(t, ok)

	assert.True(t, a.Clear("g", "u"))
	assert.False(t, a.Clear("g", "u"))
	_, ok = a.Get("g", "u")
	assert.False(t, ok)
}

func TestSnipeCache(t *testing.T) {
	c := NewSnipeCache()

	_, ok := c.Get("chan")
	assert.False(t, ok)

	c.Put("chan", "alice", "first")
	c.Put("chan", "bob", "second")

	m, ok := c.Get("chan")
	require.True(t, ok)
	assert.Equal(t, "bob", m.Author)
	assert.Equal(t, "second", m.Content)

	_, ok = c.Get("other")
	assert.False(t, ok)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXpForNext(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 100},
		{1, 155},
		{2, 220},
		{5, 475},
		{10, 1100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, xpForNext(tt.level), "level %d", tt.level)
	}
}

func TestXpCooldown(t *testing.T) {
	c := newXpCooldown()

	assert.True(t, c.allow("g", "u"))
	// inside the window the same sender is throttled
	assert.False(t, c.allow("g", "u"))

	// other senders are unaffected
	assert.True(t, c.allow("g", "u2"))
	assert.True(t, c.allow("g2", "u"))
}

func TestOpenStoreUnconfigured(t *testing.T) {
	assert.Nil(t, openStore("", ""))
	assert.Nil(t, openStore("mysql", ""))
	assert.Nil(t, openStore("", "dsn"))
}

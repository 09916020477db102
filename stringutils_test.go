package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"10s", 10 * time.Second, true},
		{"10m", 10 * time.Minute, true},
		{"2h", 2 * time.Hour, true},
		{"1d", 24 * time.Hour, true},
		{"1w", 7 * 24 * time.Hour, true},
		{" 5M ", 5 * time.Minute, true},
		{"365d", 365 * 24 * time.Hour, true},
		{"52w", 52 * 7 * 24 * time.Hour, true},
		{"", 0, false},
		{"10", 0, false},
		{"m", 0, false},
		{"0m", 0, false},
		{"-5m", 0, false},
		{"10 m", 0, false},
		{"999999999m", 0, false},
		// above the cap, including counts that would overflow the multiply
		{"366d", 0, false},
		{"53w", 0, false},
		{"8761h", 0, false},
		{"99999999h", 0, false},
		{"99999999w", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDuration(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00h 00m 00s"},
		{5 * time.Second, "00h 00m 05s"},
		{61 * time.Second, "00h 01m 01s"},
		{3*time.Hour + 2*time.Minute + time.Second, "03h 02m 01s"},
		{100 * time.Hour, "100h 00m 00s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d))
	}
}

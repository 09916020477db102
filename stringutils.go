package main

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Lowercases and collapses runs of whitespace to single spaces, so trivia
// answers compare loosely.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var durationRe = regexp.MustCompile(`^([0-9]{1,8})([smhdw])$`)

// Longest accepted delay; also keeps the multiplication below from
// overflowing time.Duration.
const maxParsedDuration = 365 * 24 * time.Hour

// Parses durations like 10m, 2h or 1d.
func parseDuration(s string) (time.Duration, bool) {
	m := durationRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	default:
		unit = 7 * 24 * time.Hour
	}

	if time.Duration(n) > maxParsedDuration/unit {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

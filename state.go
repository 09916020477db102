package main

import (
	"sync/atomic"
	"time"
)

// HealthFlags tracks the three subsystems exposed on the status endpoint.
// Each flag is toggled independently by its own subsystem.
type HealthFlags struct {
	api      atomic.Bool
	gateway  atomic.Bool
	commands atomic.Bool
}

// BotState holds everything the handlers share. Every sub-store carries its
// own lock, so unrelated operations never serialize on each other.
type BotState struct {
	startTime time.Time
	lastBoot  string

	ready  atomic.Bool
	health HealthFlags

	incidents *IncidentLog
	guilds    *GuildRegistry
	prefixes  *PrefixStore
	guesses   *GuessRegistry
	trivia    *TriviaRegistry
	limiter   *RateLimiter
	afk       *AfkStore
	snipes    *SnipeCache
}

func newBotState(defaultPrefix string) *BotState {
	st := &BotState{
		startTime: time.Now(),
		lastBoot:  isoNow(),
		incidents: NewIncidentLog(),
		guilds:    NewGuildRegistry(),
		prefixes:  NewPrefixStore(defaultPrefix),
		guesses:   NewGuessRegistry(),
		trivia:    NewTriviaRegistry(),
		limiter:   NewRateLimiter(),
		afk:       NewAfkStore(),
		snipes:    NewSnipeCache(),
	}

	// The gateway starts offline; api and commands are assumed healthy
	// until something fails.
	st.health.api.Store(true)
	st.health.commands.Store(true)

	return st
}

func (st *BotState) uptime() string {
	return formatUptime(time.Since(st.startTime))
}

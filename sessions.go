package main

import (
	"math/rand"
	"sync"
)

// Bounds of the guessing game.
const (
	guessMin = 1
	guessMax = 100
)

// GuessOutcome is the result of a single guess.
type GuessOutcome int

const (
	GuessOutOfRange GuessOutcome = iota
	GuessNoSession
	GuessHigher
	GuessLower
	GuessCorrect
)

type guessSession struct {
	answer int
	tries  int
}

// GuessRegistry holds at most one guessing-game session per channel.
type GuessRegistry struct {
	mu       sync.Mutex
	sessions map[string]*guessSession

	// randInt returns a value in [0, n); swapped out in tests.
	randInt func(n int) int
}

func NewGuessRegistry() *GuessRegistry {
	return &GuessRegistry{
		sessions: make(map[string]*guessSession),
		randInt:  rand.Intn,
	}
}

// Start begins a new session for the channel, replacing any prior one.
func (g *GuessRegistry) Start(channelID string) {
	g.mu.Lock()
	g.sessions[channelID] = &guessSession{
		answer: guessMin + g.randInt(guessMax-guessMin+1),
	}
	g.mu.Unlock()
}

// Stop removes the channel's session, if any.
func (g *GuessRegistry) Stop(channelID string) {
	g.mu.Lock()
	delete(g.sessions, channelID)
	g.mu.Unlock()
}

// Guess plays one guess and returns the outcome together with the tries
// taken so far. Out-of-range guesses never touch the session.
func (g *GuessRegistry) Guess(channelID string, n int) (GuessOutcome, int) {
	if n < guessMin || n > guessMax {
		return GuessOutOfRange, 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[channelID]
	if !ok {
		return GuessNoSession, 0
	}

	s.tries++
	switch {
	case n == s.answer:
		tries := s.tries
		delete(g.sessions, channelID)
		return GuessCorrect, tries
	case n < s.answer:
		return GuessHigher, s.tries
	default:
		return GuessLower, s.tries
	}
}

// TriviaOutcome is the result of an answer attempt.
type TriviaOutcome int

const (
	TriviaNoSession TriviaOutcome = iota
	TriviaWrong
	TriviaCorrect
)

type triviaQuestion struct {
	question string
	answer   string
}

// The fixed in-memory question bank. Answers are stored lowercased.
var triviaBank = []triviaQuestion{
	{"What is the capital of Japan?", "tokyo"},
	{"2 + 2 = ?", "4"},
	{"Which planet is known as the Red Planet?", "mars"},
	{"What does CPU stand for?", "central processing unit"},
	{"HTTP status for Not Found?", "404"},
}

type triviaSession struct {
	question string
	answer   string
}

// TriviaRegistry holds at most one trivia session per channel.
type TriviaRegistry struct {
	mu       sync.Mutex
	sessions map[string]*triviaSession
	randInt  func(n int) int
}

func NewTriviaRegistry() *TriviaRegistry {
	return &TriviaRegistry{
		sessions: make(map[string]*triviaSession),
		randInt:  rand.Intn,
	}
}

// Start draws a random question for the channel, replacing any prior
// session, and returns the question text.
func (t *TriviaRegistry) Start(channelID string) string {
	qa := triviaBank[t.randInt(len(triviaBank))]

	t.mu.Lock()
	t.sessions[channelID] = &triviaSession{
		question: qa.question,
		answer:   normalizeAnswer(qa.answer),
	}
	t.mu.Unlock()

	return qa.question
}

// Answer checks a normalized attempt against the channel's session. A wrong
// answer leaves the session active so retries are allowed.
func (t *TriviaRegistry) Answer(channelID, text string) TriviaOutcome {
	attempt := normalizeAnswer(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[channelID]
	if !ok {
		return TriviaNoSession
	}
	if attempt != s.answer {
		return TriviaWrong
	}

	delete(t.sessions, channelID)
	return TriviaCorrect
}

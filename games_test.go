package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRpsBeats(t *testing.T) {
	assert.True(t, rpsBeats("rock", "scissors"))
	assert.True(t, rpsBeats("paper", "rock"))
	assert.True(t, rpsBeats("scissors", "paper"))
	assert.False(t, rpsBeats("rock", "paper"))
	assert.False(t, rpsBeats("rock", "rock"))
}

func TestPlayRpsReply(t *testing.T) {
	reply, ok := playRpsReply("rock")
	require.True(t, ok)
	assert.Contains(t, reply, "You: **rock**")

	_, ok = playRpsReply("lizard")
	assert.False(t, ok)
}

func TestFlipCoinReply(t *testing.T) {
	reply := flipCoinReply()
	assert.True(t, reply == "🪙 **Heads**" || reply == "🪙 **Tails**")
}

func TestGuessRepliesMatchOutcomes(t *testing.T) {
	st := newBotState("!")
	st.guesses.randInt = func(int) int { return 42 - guessMin }

	assert.Equal(t, "No active game. Use `guess start` first.", playGuessReply(st, "chan", 50))
	assert.Equal(t, "🎯 Guess game started (1..100).", startGuessReply(st, "chan"))
	assert.Equal(t, "Pick a number 1..100.", playGuessReply(st, "chan", 0))
	assert.Equal(t, "⬆️ Higher.", playGuessReply(st, "chan", 10))
	assert.Equal(t, "⬇️ Lower.", playGuessReply(st, "chan", 90))
	assert.Equal(t, "✅ Correct! Tries: 3", playGuessReply(st, "chan", 42))
	assert.Equal(t, "🛑 Guess game stopped.", stopGuessReply(st, "chan"))
}

func TestTriviaReplies(t *testing.T) {
	st := newBotState("!")
	st.trivia.randInt = func(int) int { return 0 }

	assert.Equal(t, "No active trivia. Use `trivia`.", answerTriviaReply(st, "chan", "tokyo"))

	reply := startTriviaReply(st, "chan")
	assert.True(t, strings.Contains(reply, triviaBank[0].question))

	assert.Equal(t, "❌ Wrong.", answerTriviaReply(st, "chan", "osaka"))
	assert.Equal(t, "✅ Correct!", answerTriviaReply(st, "chan", "Tokyo"))
}

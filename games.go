package main

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Reply text shared by the slash and prefix entry points, so both enforce
// the same validation and produce the same state transitions.

func startGuessReply(st *BotState, channelID string) string {
	st.guesses.Start(channelID)
	return "🎯 Guess game started (1..100)."
}

func stopGuessReply(st *BotState, channelID string) string {
	st.guesses.Stop(channelID)
	return "🛑 Guess game stopped."
}

func playGuessReply(st *BotState, channelID string, n int) string {
	outcome, tries := st.guesses.Guess(channelID, n)
	switch outcome {
	case GuessOutOfRange:
		return "Pick a number 1..100."
	case GuessNoSession:
		return "No active game. Use `guess start` first."
	case GuessCorrect:
		return "✅ Correct! Tries: " + strconv.Itoa(tries)
	case GuessHigher:
		return "⬆️ Higher."
	default:
		return "⬇️ Lower."
	}
}

func startTriviaReply(st *BotState, channelID string) string {
	question := st.trivia.Start(channelID)
	return "🧠 Trivia: **" + question + "**\nAnswer with `answer <text>`."
}

func answerTriviaReply(st *BotState, channelID, text string) string {
	switch st.trivia.Answer(channelID, text) {
	case TriviaNoSession:
		return "No active trivia. Use `trivia`."
	case TriviaCorrect:
		return "✅ Correct!"
	default:
		return "❌ Wrong."
	}
}

// Reports whether choice a beats choice b at rock paper scissors.
func rpsBeats(a, b string) bool {
	return (a == "rock" && b == "scissors") ||
		(a == "paper" && b == "rock") ||
		(a == "scissors" && b == "paper")
}

func playRpsReply(choice string) (string, bool) {
	options := []string{"rock", "paper", "scissors"}

	valid := false
	for _, o := range options {
		if choice == o {
			valid = true
			break
		}
	}
	if !valid {
		return "", false
	}

	botChoice := options[rand.Intn(len(options))]

	var result string
	switch {
	case choice == botChoice:
		result = "Draw!"
	case rpsBeats(choice, botChoice):
		result = "You win!"
	default:
		result = "You lose!"
	}

	return fmt.Sprintf("You: **%s** | Bot: **%s** → **%s**", choice, botChoice, result), true
}

func flipCoinReply() string {
	if rand.Intn(2) == 1 {
		return "🪙 **Heads**"
	}
	return "🪙 **Tails**"
}

package main

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Formats an uptime as 01h 02m 03s.
func formatUptime(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02dh %02dm %02ds", total/3600, (total%3600)/60, total%60)
}

// Wall-clock UTC timestamp in the shape the status page expects.
func isoNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// Gateway heartbeat latency in milliseconds.
func gatewayPing(s *discordgo.Session) float64 {
	return float64(s.HeartbeatLatency().Microseconds()) / 1000.0
}

// Sends an embed as response to an interaction
func sendEmbedInteraction(s *discordgo.Session, embed *discordgo.MessageEmbed, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
}

// Sends plain text as response to an interaction
func sendTextInteraction(s *discordgo.Session, text string, i *discordgo.Interaction, ephemeral bool) error {
	data := discordgo.InteractionResponseData{Content: text}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &data,
	})
}

// Reports whether the message author holds the given permission in the
// channel the message was sent in. Unknown members count as not holding it.
func authorHasPermission(s *discordgo.Session, m *discordgo.Message, perm int64) bool {
	perms, err := s.State.MessagePermissions(m)
	if err != nil {
		return false
	}
	return perms&perm != 0
}

// Same check for an interaction, where the member permissions come resolved
// on the payload.
func callerHasPermission(i *discordgo.InteractionCreate, perm int64) bool {
	return i.Member != nil && i.Member.Permissions&perm != 0
}

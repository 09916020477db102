package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0xFF00FF

var (
	// Commands
	commands = []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency",
		},
		{
			Name:        "info",
			Description: "Get bot info",
		},
		{
			Name:        "serverinfo",
			Description: "Get current server info",
		},
		{
			Name:        "userinfo",
			Description: "Get info about a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "target",
					Description: "User to lookup",
					Required:    false,
				},
			},
		},
		{
			Name:        "credit",
			Description: "Show bot creator info",
		},
		{
			Name:        "serverlist",
			Description: "Show all servers the bot is in (owner only)",
		},
		{
			Name:        "setprefix",
			Description: "Change prefix for this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prefix",
					Description: "New prefix (1..8 chars, no spaces)",
					Required:    true,
				},
			},
		},
		{
			Name:        "rps",
			Description: "Rock Paper Scissors",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "choice",
					Description: "rock|paper|scissors",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "rock", Value: "rock"},
						{Name: "paper", Value: "paper"},
						{Name: "scissors", Value: "scissors"},
					},
				},
			},
		},
		{
			Name:        "coinflip",
			Description: "Flip a coin",
		},
		{
			Name:        "guess",
			Description: "Guess number minigame",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "start|stop|number",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "number",
					Description: "Your guess (only for action=number)",
					Required:    false,
				},
			},
		},
		{
			Name:        "trivia",
			Description: "Start a trivia question in this channel",
		},
		{
			Name:        "answer",
			Description: "Answer the current trivia question",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Your answer",
					Required:    true,
				},
			},
		},
		{
			Name:        "afk",
			Description: "Mark yourself AFK",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why you are away",
					Required:    false,
				},
			},
		},
		{
			Name:        "snipe",
			Description: "Show the last deleted message in this channel",
		},
		{
			Name:        "rank",
			Description: "Show your level and rank on this server",
		},
		{
			Name:        "levels",
			Description: "Show the server leaderboard",
		},
		{
			Name:        "leveling",
			Description: "Enable or disable leveling on this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "enable|disable",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "enable", Value: "enable"},
						{Name: "disable", Value: "disable"},
					},
				},
			},
		},
		{
			Name:        "remind",
			Description: "Set a reminder",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "in",
					Description: "When, like 10m, 2h or 1d",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "What to remind you about",
					Required:    true,
				},
			},
		},
		{
			Name:        "reminders",
			Description: "List your reminders",
		},
	}

	// Handler
	commandHandlers = map[string]func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error{
		"ping": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			return sendEmbedInteraction(s, pingEmbed(b, s), i.Interaction)
		},

		"info": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			return sendEmbedInteraction(s, infoEmbed(b, s), i.Interaction)
		},

		"serverinfo": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			embed, ok := serverInfoEmbed(b, i.GuildID)
			if !ok {
				return sendTextInteraction(s, "Server info not available.", i.Interaction, true)
			}
			return sendEmbedInteraction(s, embed, i.Interaction)
		},

		"userinfo": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			target := i.Member.User
			for _, o := range i.ApplicationCommandData().Options {
				if o.Name == "target" {
					target = o.UserValue(s)
				}
			}
			return sendEmbedInteraction(s, userInfoEmbed(target), i.Interaction)
		},

		"credit": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			return sendEmbedInteraction(s, creditEmbed(b, s), i.Interaction)
		},

		"serverlist": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if i.Member.User.ID != b.cfg.OwnerID {
				return sendTextInteraction(s, "🚫 You do not have permission to use this command.", i.Interaction, true)
			}

			list := serverListText(b.state)
			if len(list) > serverListAttachLimit {
				return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: "📄 Server list attached.",
						Flags:   discordgo.MessageFlagsEphemeral,
						Files: []*discordgo.File{
							{Name: "serverlist.txt", ContentType: "text/plain", Reader: bytes.NewReader([]byte(list))},
						},
					},
				})
			}
			return sendTextInteraction(s, "🤖 Servers:\n"+list, i.Interaction, true)
		},

		"setprefix": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if !callerHasPermission(i, discordgo.PermissionManageServer) {
				return sendTextInteraction(s, "🚫 You need Manage Server to change prefix.", i.Interaction, true)
			}

			prefix := i.ApplicationCommandData().Options[0].StringValue()
			reply, ok := b.setPrefix(i.GuildID, prefix)
			return sendTextInteraction(s, reply, i.Interaction, !ok)
		},

		"rps": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			choice := strings.ToLower(i.ApplicationCommandData().Options[0].StringValue())
			reply, ok := playRpsReply(choice)
			if !ok {
				return sendTextInteraction(s, "Usage: rps rock|paper|scissors", i.Interaction, true)
			}
			return sendTextInteraction(s, reply, i.Interaction, false)
		},

		"coinflip": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			return sendTextInteraction(s, flipCoinReply(), i.Interaction, false)
		},

		"guess": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			var (
				action string
				number int
			)
			for _, o := range i.ApplicationCommandData().Options {
				switch o.Name {
				case "action":
					action = strings.ToLower(o.StringValue())
				case "number":
					number = int(o.IntValue())
				}
			}

			switch action {
			case "start":
				return sendTextInteraction(s, startGuessReply(b.state, i.ChannelID), i.Interaction, false)
			case "stop":
				return sendTextInteraction(s, stopGuessReply(b.state, i.ChannelID), i.Interaction, false)
			case "number":
				return sendTextInteraction(s, playGuessReply(b.state, i.ChannelID, number), i.Interaction, false)
			default:
				return sendTextInteraction(s, "Use action=start|stop|number", i.Interaction, true)
			}
		},

		"trivia": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			return sendTextInteraction(s, startTriviaReply(b.state, i.ChannelID), i.Interaction, false)
		},

		"answer": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			text := i.ApplicationCommandData().Options[0].StringValue()
			return sendTextInteraction(s, answerTriviaReply(b.state, i.ChannelID, text), i.Interaction, false)
		},

		"afk": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			reason := "AFK"
			for _, o := range i.ApplicationCommandData().Options {
				if o.Name == "reason" {
					reason = o.StringValue()
				}
			}

			b.state.afk.Set(i.GuildID, i.Member.User.ID, reason)
			return sendTextInteraction(s, "💤 You are now AFK: **"+reason+"**", i.Interaction, true)
		},

		"snipe": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			sniped, ok := b.state.snipes.Get(i.ChannelID)
			if !ok {
				return sendTextInteraction(s, "Nothing to snipe.", i.Interaction, true)
			}
			return sendEmbedInteraction(s, snipeEmbed(sniped), i.Interaction)
		},

		"rank": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if b.store == nil {
				return sendTextInteraction(s, levelingDisabledReply, i.Interaction, true)
			}

			xp, level, position, ok := b.store.rank(i.GuildID, i.Member.User.ID)
			if !ok {
				return sendTextInteraction(s, "No rank yet. Send some messages first!", i.Interaction, true)
			}

			embed := NewEmbed().SetTitle("📊 Rank").
				AddField("Level", strconv.Itoa(level)).
				AddField("XP", fmt.Sprintf("%d / %d", xp, xpForNext(level))).
				AddField("Rank", "#"+strconv.Itoa(position)).
				SetColor(embedColor).SetTimestamp().MessageEmbed
			return sendEmbedInteraction(s, embed, i.Interaction)
		},

		"levels": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if b.store == nil {
				return sendTextInteraction(s, levelingDisabledReply, i.Interaction, true)
			}
			return sendTextInteraction(s, leaderboardText(b.store, i.GuildID), i.Interaction, false)
		},

		"leveling": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if !callerHasPermission(i, discordgo.PermissionManageServer) {
				return sendTextInteraction(s, "🚫 You need Manage Server to change leveling.", i.Interaction, true)
			}
			if b.store == nil {
				return sendTextInteraction(s, levelingDisabledReply, i.Interaction, true)
			}

			enable := i.ApplicationCommandData().Options[0].StringValue() == "enable"
			b.store.setLevelingEnabled(i.GuildID, enable)
			if enable {
				return sendTextInteraction(s, "🎉 Leveling enabled on this server.", i.Interaction, false)
			}
			return sendTextInteraction(s, "Leveling disabled on this server.", i.Interaction, false)
		},

		"remind": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if b.store == nil {
				return sendTextInteraction(s, remindersDisabledReply, i.Interaction, true)
			}

			var in, text string
			for _, o := range i.ApplicationCommandData().Options {
				switch o.Name {
				case "in":
					in = o.StringValue()
				case "text":
					text = o.StringValue()
				}
			}

			reply, err := b.createReminder(i.Member.User.ID, i.ChannelID, i.GuildID, in, text)
			if err != nil {
				return err
			}
			return sendTextInteraction(s, reply, i.Interaction, false)
		},

		"reminders": func(b *Bot, s *discordgo.Session, i *discordgo.InteractionCreate) error {
			if b.store == nil {
				return sendTextInteraction(s, remindersDisabledReply, i.Interaction, true)
			}
			return sendTextInteraction(s, remindersText(b.store, i.Member.User.ID), i.Interaction, true)
		},
	}
)

const (
	levelingDisabledReply  = "Leveling is not configured on this bot."
	remindersDisabledReply = "Reminders are not configured on this bot."

	// Above this size a server list goes out as an attachment.
	serverListAttachLimit = 1800
)

// setPrefix validates, stores and persists a new guild prefix, returning the
// reply text and whether the mutation happened.
func (b *Bot) setPrefix(guildID, prefix string) (string, bool) {
	if !b.state.prefixes.SetOverride(guildID, prefix) {
		return "Invalid prefix. 1..8 chars, no spaces.", false
	}

	b.state.prefixes.Flush(b.cfg.PrefixFile)
	return "✅ Prefix updated to `" + prefix + "`", true
}

// createReminder parses the delay, stores the reminder and describes it.
func (b *Bot) createReminder(userID, channelID, guildID, in, text string) (string, error) {
	delay, ok := parseDuration(in)
	if !ok {
		return "Usage: remind <10m|2h|1d> <text>", nil
	}
	if strings.TrimSpace(text) == "" {
		return "Usage: remind <10m|2h|1d> <text>", nil
	}

	id, err := b.store.addReminder(userID, channelID, guildID, time.Now().Add(delay), text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("⏰ Reminder #%d set, due in %s.", id, delay), nil
}

func pingEmbed(b *Bot, s *discordgo.Session) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("**Ping:** %.2fms\n**Uptime:** %s\n**Status:** %s",
		gatewayPing(s), b.state.uptime(), b.cfg.StatusURL)
	return NewEmbed().SetTitle("〽️ Pong!").SetDescription(desc).SetColor(embedColor).SetTimestamp().MessageEmbed
}

func infoEmbed(b *Bot, s *discordgo.Session) *discordgo.MessageEmbed {
	guilds, _ := b.state.guilds.Totals()
	desc := fmt.Sprintf("**Username:** %s\n**ID:** %s\n**Servers:** %d\n**Uptime:** %s\n**Status:** %s",
		s.State.User.Username, s.State.User.ID, guilds, b.state.uptime(), b.cfg.StatusURL)
	return NewEmbed().SetTitle("🤖 Bot Info").SetDescription(desc).
		SetThumbnail(s.State.User.AvatarURL("")).SetColor(embedColor).SetTimestamp().MessageEmbed
}

func serverInfoEmbed(b *Bot, guildID string) (*discordgo.MessageEmbed, bool) {
	snap, ok := b.state.guilds.Get(guildID)
	if !ok {
		return nil, false
	}

	desc := fmt.Sprintf("**Name:** %s\n**ID:** %s\n**Members:** %d", snap.Name, snap.ID, snap.MemberCount)
	return NewEmbed().SetTitle("🏠 Server Info").SetDescription(desc).SetColor(embedColor).SetTimestamp().MessageEmbed, true
}

func userInfoEmbed(u *discordgo.User) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("**Username:** %s\n**ID:** %s", u.Username, u.ID)
	return NewEmbed().SetTitle("ℹ️ User Info").SetDescription(desc).
		SetThumbnail(u.AvatarURL("")).SetColor(embedColor).SetTimestamp().MessageEmbed
}

func creditEmbed(b *Bot, s *discordgo.Session) *discordgo.MessageEmbed {
	desc := "Created by **@ZiolKen**\nWebsite: https://ziolken.vercel.app\nBot Status: " + b.cfg.StatusURL
	return NewEmbed().SetTitle("👨‍💻 Bot Developer").SetDescription(desc).
		SetThumbnail(s.State.User.AvatarURL("")).SetColor(embedColor).SetTimestamp().MessageEmbed
}

func snipeEmbed(m SnipedMessage) *discordgo.MessageEmbed {
	return NewEmbed().SetTitle("🗑️ Sniped").SetDescription(m.Content).
		AddField("Author", m.Author).SetColor(embedColor).SetTimestamp().MessageEmbed
}

func serverListText(st *BotState) string {
	var sb strings.Builder
	for n, snap := range st.guilds.List() {
		fmt.Fprintf(&sb, "%d. %s (ID: %s)\n", n+1, snap.Name, snap.ID)
	}
	return sb.String()
}

func leaderboardText(store *Store, guildID string) string {
	rows := store.leaderboard(guildID, 10)
	if len(rows) == 0 {
		return "No one has earned xp here yet."
	}

	var sb strings.Builder
	sb.WriteString("🏆 Leaderboard:\n")
	for n, r := range rows {
		fmt.Fprintf(&sb, "%d) <@%s> — level %d (%d xp)\n", n+1, r.userID, r.level, r.xp)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func remindersText(store *Store, userID string) string {
	rows := store.listReminders(userID, 10)
	if len(rows) == 0 {
		return "You have no reminders."
	}

	var sb strings.Builder
	sb.WriteString("⏰ Your reminders:\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "#%d • %s • %s\n", r.ID, r.RemindAt.Format(time.RFC3339), r.Text)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

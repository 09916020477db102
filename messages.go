package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/lit"
)

func (b *Bot) ready(s *discordgo.Session, _ *discordgo.Ready) {
	b.state.ready.Store(true)
	b.state.health.gateway.Store(true)
	b.state.incidents.Resolve("gateway")

	if err := s.UpdateWatchStatus(0, b.cfg.StatusURL); err != nil {
		lit.Error("Can't set status, %s", err)
	}

	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", commands)
	if err != nil {
		lit.Error("Cannot register commands: %s", err)
		b.state.health.commands.Store(false)
		b.state.incidents.Open("commands", "Slash registration failed")
		return
	}

	lit.Info("Logged in as %s", s.State.User.Username)
}

func (b *Bot) connect(_ *discordgo.Session, _ *discordgo.Connect) {
	b.state.health.gateway.Store(true)
	b.state.incidents.Resolve("gateway")
}

func (b *Bot) disconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.state.health.gateway.Store(false)
	b.state.incidents.Open("gateway", "Discord gateway disconnected")
}

func (b *Bot) guildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	b.state.guilds.Upsert(GuildSnapshot{
		ID:          g.ID,
		Name:        g.Name,
		MemberCount: g.MemberCount,
	})
}

func (b *Bot) guildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	// Unavailable means an outage, not a leave
	if g.Unavailable {
		return
	}
	b.state.guilds.Remove(g.ID)
}

// Feeds the snipe cache from the state's message cache.
func (b *Bot) messageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	cached := m.BeforeDelete
	if cached == nil || cached.Author == nil || cached.Author.Bot {
		return
	}
	if m.GuildID == "" || cached.Content == "" {
		return
	}

	b.state.snipes.Put(m.ChannelID, cached.Author.Username, cached.Content)
}

// Slash command dispatch. Unexpected failures are converted into a commands
// incident and a generic reply; expected validation outcomes never get here.
func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	// Ignores commands from DM
	if i.User != nil {
		return
	}

	h, ok := commandHandlers[i.ApplicationCommandData().Name]
	if !ok {
		return
	}

	b.state.health.commands.Store(true)
	b.state.incidents.Resolve("commands")

	if err := runGuarded(func() error { return h(b, s, i) }); err != nil {
		lit.Error("Command %s failed: %s", i.ApplicationCommandData().Name, err)
		b.state.health.commands.Store(false)
		b.state.incidents.Open("commands", "Command execution failed")
		_ = sendTextInteraction(s, "⚠️ Command error.", i.Interaction, true)
	}
}

func runGuarded(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f()
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		return
	}
	if !b.state.ready.Load() {
		return
	}

	prefix := b.state.prefixes.Resolve(m.GuildID)
	// Holders of Manage Messages skip moderation entirely.
	exempt := authorHasPermission(s, m.Message, discordgo.PermissionManageMessages)
	d := b.classify(moderationInput(m), exempt, prefix)

	if d.verdict != ModPass {
		_ = s.ChannelMessageDelete(m.ChannelID, m.ID)
		_, _ = s.ChannelMessageSend(m.ChannelID, warningFor(d.verdict))
		return
	}

	b.notifyAfk(s, m)
	b.awardXP(s, m)

	if d.cmd == "" {
		return
	}

	b.state.health.commands.Store(true)
	b.state.incidents.Resolve("commands")

	if err := runGuarded(func() error { return b.runTextCommand(s, m, d.cmd, d.args, prefix) }); err != nil {
		lit.Error("Command %s failed: %s", d.cmd, err)
		b.state.health.commands.Store(false)
		b.state.incidents.Open("commands", "Command execution failed")
		_, _ = s.ChannelMessageSend(m.ChannelID, "⚠️ Command error.")
	}
}

// inboundDecision is the outcome of the pre-dispatch pipeline: either a
// moderation verdict that removes the message, or the command it carries.
type inboundDecision struct {
	verdict ModVerdict
	cmd     string
	args    []string
}

// classify runs moderation and the prefix check. A moderation trip always
// wins: a removed message never reaches command dispatch, even when it also
// matches the prefix.
func (b *Bot) classify(in ModInput, exempt bool, prefix string) inboundDecision {
	if !exempt {
		if v := b.moderation.Review(in); v != ModPass {
			return inboundDecision{verdict: v}
		}
	}

	if !strings.HasPrefix(in.Content, prefix) {
		return inboundDecision{}
	}
	fields := strings.Fields(strings.TrimPrefix(in.Content, prefix))
	if len(fields) == 0 {
		return inboundDecision{}
	}
	return inboundDecision{cmd: strings.ToLower(fields[0]), args: fields[1:]}
}

func moderationInput(m *discordgo.MessageCreate) ModInput {
	users := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		users = append(users, u.ID)
	}

	return ModInput{
		GuildID:         m.GuildID,
		UserID:          m.Author.ID,
		Content:         m.Content,
		MentionEveryone: m.MentionEveryone,
		MentionedUsers:  users,
		MentionedRoles:  m.MentionRoles,
	}
}

// Announces AFK members that were mentioned and clears the author's own mark.
func (b *Bot) notifyAfk(s *discordgo.Session, m *discordgo.MessageCreate) {
	for _, u := range m.Mentions {
		if status, ok := b.state.afk.Get(m.GuildID, u.ID); ok {
			_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("💤 <@%s> is AFK: **%s**", u.ID, status.Reason))
		}
	}

	if b.state.afk.Clear(m.GuildID, m.Author.ID) {
		_, _ = s.ChannelMessageSend(m.ChannelID, "✅ Welcome back! Your AFK status has been removed.")
	}
}

func (b *Bot) awardXP(s *discordgo.Session, m *discordgo.MessageCreate) {
	if b.store == nil || !b.store.levelingEnabled(m.GuildID) {
		return
	}
	if !b.xpSeen.allow(m.GuildID, m.Author.ID) {
		return
	}

	if level, leveledUp := b.store.addXP(m.GuildID, m.Author.ID, xpPerMessage); leveledUp {
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🎉 <@%s> leveled up to **%d**!", m.Author.ID, level))
	}
}

// Prefix command dispatch. Every command funnels into the same helpers the
// slash handlers use.
func (b *Bot) runTextCommand(s *discordgo.Session, m *discordgo.MessageCreate, cmd string, args []string, prefix string) error {
	say := func(text string) error {
		_, err := s.ChannelMessageSend(m.ChannelID, text)
		return err
	}
	sayEmbed := func(embed *discordgo.MessageEmbed) error {
		_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
		return err
	}

	switch cmd {
	case "help":
		desc := "**Prefix:** `" + prefix + "`\n" +
			"**Utilities:** help, ping, info, serverinfo, userinfo, credit, serverlist, afk, snipe, remind, reminders\n" +
			"**Config:** setprefix, leveling\n" +
			"**Games:** rps, coinflip, guess, trivia, answer\n" +
			"**Levels:** rank, levels\n" +
			"**Moderation:** purge\n" +
			"**Status:** " + b.cfg.StatusURL
		return sayEmbed(NewEmbed().SetTitle("🧰 Commands").SetDescription(desc).SetColor(0x00D4FF).SetTimestamp().MessageEmbed)

	case "ping":
		return sayEmbed(pingEmbed(b, s))

	case "info":
		return sayEmbed(infoEmbed(b, s))

	case "serverinfo":
		embed, ok := serverInfoEmbed(b, m.GuildID)
		if !ok {
			return say("Server info not available.")
		}
		return sayEmbed(embed)

	case "userinfo":
		target := m.Author
		if len(m.Mentions) > 0 {
			target = m.Mentions[0]
		}
		return sayEmbed(userInfoEmbed(target))

	case "credit":
		return sayEmbed(creditEmbed(b, s))

	case "serverlist":
		if m.Author.ID != b.cfg.OwnerID {
			return say("🚫 You do not have permission to use this command.")
		}
		list := serverListText(b.state)
		if len(list) > serverListAttachLimit {
			_, err := s.ChannelFileSend(m.ChannelID, "serverlist.txt", strings.NewReader(list))
			return err
		}
		return say("🤖 Servers:\n" + list)

	case "setprefix":
		if !authorHasPermission(s, m.Message, discordgo.PermissionManageServer) {
			return say("🚫 You need Manage Server to change prefix.")
		}
		if len(args) == 0 {
			return say("Usage: setprefix <prefix>")
		}
		reply, _ := b.setPrefix(m.GuildID, args[0])
		return say(reply)

	case "rps":
		if len(args) == 0 {
			return say("Usage: rps rock|paper|scissors")
		}
		reply, ok := playRpsReply(strings.ToLower(args[0]))
		if !ok {
			return say("Usage: rps rock|paper|scissors")
		}
		return say(reply)

	case "coinflip":
		return say(flipCoinReply())

	case "guess":
		if len(args) == 0 {
			return say("Usage: guess start|stop|<number>")
		}
		switch action := strings.ToLower(args[0]); action {
		case "start":
			return say(startGuessReply(b.state, m.ChannelID))
		case "stop":
			return say(stopGuessReply(b.state, m.ChannelID))
		default:
			n, _ := strconv.Atoi(action)
			return say(playGuessReply(b.state, m.ChannelID, n))
		}

	case "trivia":
		return say(startTriviaReply(b.state, m.ChannelID))

	case "answer":
		if len(args) == 0 {
			return say("Usage: answer <text>")
		}
		return say(answerTriviaReply(b.state, m.ChannelID, strings.Join(args, " ")))

	case "purge":
		if !authorHasPermission(s, m.Message, discordgo.PermissionManageMessages) {
			return say("🚫 You need Manage Messages.")
		}
		if len(args) == 0 {
			return say("Usage: purge <count 1..100>")
		}
		n, _ := strconv.Atoi(args[0])
		if n < 1 {
			n = 1
		}
		if n > 100 {
			n = 100
		}

		// +1 to take the purge command itself with it
		messages, err := s.ChannelMessages(m.ChannelID, n+1, "", "", "")
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(messages))
		for _, msg := range messages {
			ids = append(ids, msg.ID)
		}
		return s.ChannelMessagesBulkDelete(m.ChannelID, ids)

	case "afk":
		reason := "AFK"
		if len(args) > 0 {
			reason = strings.Join(args, " ")
		}
		b.state.afk.Set(m.GuildID, m.Author.ID, reason)
		return say("💤 You are now AFK: **" + reason + "**")

	case "snipe":
		sniped, ok := b.state.snipes.Get(m.ChannelID)
		if !ok {
			return say("Nothing to snipe.")
		}
		return sayEmbed(snipeEmbed(sniped))

	case "rank":
		if b.store == nil {
			return say(levelingDisabledReply)
		}
		xp, level, position, ok := b.store.rank(m.GuildID, m.Author.ID)
		if !ok {
			return say("No rank yet. Send some messages first!")
		}
		return say(fmt.Sprintf("📊 Level **%d** — %d/%d xp — rank #%d", level, xp, xpForNext(level), position))

	case "levels":
		if b.store == nil {
			return say(levelingDisabledReply)
		}
		return say(leaderboardText(b.store, m.GuildID))

	case "leveling":
		if !authorHasPermission(s, m.Message, discordgo.PermissionManageServer) {
			return say("🚫 You need Manage Server to change leveling.")
		}
		if b.store == nil {
			return say(levelingDisabledReply)
		}
		if len(args) == 0 || (args[0] != "enable" && args[0] != "disable") {
			return say("Usage: leveling enable|disable")
		}
		enable := args[0] == "enable"
		b.store.setLevelingEnabled(m.GuildID, enable)
		if enable {
			return say("🎉 Leveling enabled on this server.")
		}
		return say("Leveling disabled on this server.")

	case "remind":
		if b.store == nil {
			return say(remindersDisabledReply)
		}
		if len(args) < 2 {
			return say("Usage: remind <10m|2h|1d> <text>")
		}
		reply, err := b.createReminder(m.Author.ID, m.ChannelID, m.GuildID, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return say(reply)

	case "reminders":
		if b.store == nil {
			return say(remindersDisabledReply)
		}
		return say(remindersText(b.store, m.Author.ID))
	}

	return nil
}

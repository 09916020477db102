package main

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/lit"
	"github.com/go-co-op/gocron"
)

// Background jobs: periodic prefix flush, gateway latency logging and
// reminder delivery.
func (b *Bot) startScheduler(s *discordgo.Session) *gocron.Scheduler {
	cron := gocron.NewScheduler(time.Local)

	_, err := cron.Every(30).Seconds().Do(func() {
		b.state.prefixes.Flush(b.cfg.PrefixFile)
	})
	if err != nil {
		lit.Error("Can't schedule prefix flush: %s", err)
	}

	_, err = cron.Every(30).Seconds().Do(func() {
		lit.Debug("Gateway latency: %.0fms", gatewayPing(s))
	})
	if err != nil {
		lit.Error("Can't schedule latency log: %s", err)
	}

	if b.store != nil {
		_, err = cron.Every(20).Seconds().Do(func() {
			b.deliverReminders(s)
		})
		if err != nil {
			lit.Error("Can't schedule reminders: %s", err)
		}
	}

	cron.StartAsync()
	return cron
}

func (b *Bot) deliverReminders(s *discordgo.Session) {
	for _, r := range b.store.claimDueReminders(25) {
		_, err := s.ChannelMessageSend(r.ChannelID, fmt.Sprintf("⏰ <@%s> Reminder: **%s**", r.UserID, r.Text))
		if err != nil {
			lit.Error("Can't deliver reminder %d: %s", r.ID, err)
		}
	}
}

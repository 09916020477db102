package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/lit"
	_ "github.com/go-sql-driver/mysql"
	"github.com/kkyr/fig"
)

// Config holds parameters from config.yml.
type Config struct {
	Token          string `fig:"token" validate:"required"`
	LogLevel       string `fig:"loglevel"`
	DefaultPrefix  string `fig:"defaultprefix" default:"!"`
	OwnerID        string `fig:"ownerid"`
	Port           int    `fig:"port" default:"3000"`
	HostProvider   string `fig:"hostprovider" default:"Render.com"`
	StatusURL      string `fig:"statusurl"`
	PrefixFile     string `fig:"prefixfile" default:"data/prefixes.json"`
	DriverName     string `fig:"drivername"`
	DataSourceName string `fig:"datasourcename"`
}

// Bot ties together everything the handlers need, so nothing lives in
// package-level mutable state.
type Bot struct {
	cfg        Config
	state      *BotState
	moderation *ModerationPolicy
	store      *Store
	xpSeen     *xpCooldown
}

func init() {
	lit.LogLevel = lit.LogError
}

// loadConfig reads config.yml from the working directory or ./data and
// applies the configured log level.
func loadConfig() (Config, error) {
	var cfg Config
	err := fig.Load(&cfg, fig.File("config.yml"), fig.Dirs(".", "./data"))
	if err != nil {
		return Config{}, err
	}

	// Set lit.LogLevel to the given value
	switch cfg.LogLevel {
	case "logError":
		lit.LogLevel = lit.LogError
	case "logWarning":
		lit.LogLevel = lit.LogWarning
	case "logInformational":
		lit.LogLevel = lit.LogInformational
	case "logDebug":
		lit.LogLevel = lit.LogDebug
	}

	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		lit.Error("Error loading config: %s", err)
		return
	}

	b := &Bot{
		cfg:    cfg,
		state:  newBotState(cfg.DefaultPrefix),
		store:  openStore(cfg.DriverName, cfg.DataSourceName),
		xpSeen: newXpCooldown(),
	}
	b.moderation = NewModerationPolicy(b.state.limiter)
	b.state.prefixes.Load(cfg.PrefixFile)

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		lit.Error("Error creating Discord session: %s", err)
		return
	}

	dg.AddHandler(b.ready)
	dg.AddHandler(b.connect)
	dg.AddHandler(b.disconnect)
	dg.AddHandler(b.guildCreate)
	dg.AddHandler(b.guildDelete)
	dg.AddHandler(b.messageCreate)
	dg.AddHandler(b.messageDelete)
	dg.AddHandler(b.interactionCreate)

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent)
	// Keeps recent messages cached so deletions can be sniped
	dg.State.MaxMessageCount = 100

	err = dg.Open()
	if err != nil {
		lit.Error("Error opening connection: %s", err)
		return
	}

	cron := b.startScheduler(dg)

	web := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: newWebServer(b.state, cfg.HostProvider, func() float64 { return gatewayPing(dg) }).routes(),
	}
	go func() {
		if err := web.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lit.Error("Web server error: %s", err)
			b.state.health.api.Store(false)
			b.state.incidents.Open("api", "Status endpoint failed to start")
		}
	}()

	lit.Info("statusbot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	cron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = web.Shutdown(ctx)
	cancel()

	_ = dg.Close()
	b.state.prefixes.Flush(cfg.PrefixFile)
	b.store.close()
}

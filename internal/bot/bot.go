package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/config"
	"github.com/m7mdxyz/discord-logger/internal/repositories"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

// Bot owns the gateway session and translates platform events into store
// writes. One handler runs per event; each does its writes through the store
// gateway and, when enabled, mirrors a summary into the guild's log channels.
type Bot struct {
	session  *discordgo.Session
	store    repositories.Store
	logger   *logger.Logger
	cfg      *config.BotConfig
	channels *LogChannels

	guildID string
	selfID  string

	// now is injectable so tests can pin timestamps.
	now func() time.Time
}

// New builds the bot and registers all event handlers. The session is not
// opened yet; call Open.
func New(cfg *config.BotConfig, store repositories.Store, log *logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsAll

	b := &Bot{
		session: session,
		store:   store,
		logger:  log,
		cfg:     cfg,
		now:     time.Now,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onMessageDelete)
	session.AddHandler(b.onMessageUpdate)
	session.AddHandler(b.onVoiceStateUpdate)
	session.AddHandler(b.onGuildMemberAdd)
	session.AddHandler(b.onGuildMemberRemove)
	session.AddHandler(b.onGuildMemberUpdate)
	session.AddHandler(b.onGuildBanAdd)
	session.AddHandler(b.onGuildBanRemove)
	session.AddHandler(b.onGuildRoleCreate)
	session.AddHandler(b.onGuildRoleUpdate)
	session.AddHandler(b.onGuildRoleDelete)

	return b, nil
}

// Open connects to the gateway. Event delivery starts after the ready event,
// which also runs the bootstrap sync.
func (b *Bot) Open() error {
	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.selfID = r.User.ID
	log := b.logger.WithFields(zap.String("bot_id", r.User.ID))
	log.Info("logged on", zap.String("username", r.User.Username))

	err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusDoNotDisturb),
		Activities: []*discordgo.Activity{{
			Name: "Logging..",
			Type: discordgo.ActivityTypeListening,
		}},
	})
	if err != nil {
		log.Warn("set presence failed", zap.Error(err))
	}

	// Single-guild by design; refuse to mix journals from several guilds.
	if len(r.Guilds) > 1 {
		log.Error("bot joined multiple guilds, logging only supports one",
			zap.Int("guilds", len(r.Guilds)))
		_ = s.Close()
		return
	}
	if len(r.Guilds) == 0 {
		log.Error("bot is not in any guild")
		return
	}
	b.guildID = r.Guilds[0].ID

	b.bootstrapSync(s, log)

	if b.cfg.LogToDiscord {
		channels, err := LoadLogChannels(b.cfg.LogChannelsPath, log)
		if err != nil {
			log.Error("load log channels config failed", zap.Error(err))
			return
		}
		b.channels = channels
		if err := b.provisionLogChannels(s, log); err != nil {
			log.Error("log channel provisioning failed", zap.Error(err))
		}
	}
}

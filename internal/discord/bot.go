package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"voicestats/internal/database"
)

// Bot tracks voice channel occupancy and answers !voice commands
type Bot struct {
	session      *discordgo.Session
	repository   *database.Repository
	loc          *time.Location
	afkChannelID string
	logger       zerolog.Logger
}

// New creates a new Discord bot. loc is the timezone used for all
// calendar bucketing; afkChannelID ("" to disable) is excluded from
// every statistic.
func New(token string, repository *database.Repository, loc *time.Location, afkChannelID string, logger zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session:      session,
		repository:   repository,
		loc:          loc,
		afkChannelID: afkChannelID,
		logger:       logger,
	}

	session.AddHandler(bot.voiceStateUpdate)
	session.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	b.logger.Info().Msg("bot is running")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	return b.session.Close()
}

// voiceStateUpdate opens, closes or switches the durable session row for
// a user as they move between voice channels.
func (b *Bot) voiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.GuildID == "" {
		return
	}
	now := time.Now().Unix()

	prevChannel, open, err := b.repository.OpenChannel(vs.GuildID, vs.UserID)
	if err != nil {
		b.logger.Error().Err(err).Str("user", vs.UserID).Msg("failed to look up open session")
		return
	}

	switch {
	case vs.ChannelID != "" && !open:
		if err := b.repository.OpenSession(vs.GuildID, vs.UserID, vs.ChannelID, now); err != nil {
			b.logger.Error().Err(err).Str("user", vs.UserID).Msg("failed to open session")
			return
		}
		b.logger.Info().Str("user", vs.UserID).Str("channel", vs.ChannelID).Msg("voice join")

	case vs.ChannelID == "" && open:
		if err := b.repository.CloseSession(vs.GuildID, vs.UserID, now); err != nil {
			b.logger.Error().Err(err).Str("user", vs.UserID).Msg("failed to close session")
			return
		}
		b.logger.Info().Str("user", vs.UserID).Str("channel", prevChannel).Msg("voice leave")

	case vs.ChannelID != "" && open && vs.ChannelID != prevChannel:
		if err := b.repository.SwitchChannel(vs.GuildID, vs.UserID, vs.ChannelID, now); err != nil {
			b.logger.Error().Err(err).Str("user", vs.UserID).Msg("failed to switch session")
			return
		}
		b.logger.Info().Str("user", vs.UserID).Str("from", prevChannel).Str("to", vs.ChannelID).Msg("voice switch")
	}
}

// messageCreate dispatches !voice commands
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || m.GuildID == "" {
		return
	}

	fields := strings.Fields(strings.TrimSpace(m.Content))
	if len(fields) == 0 || fields[0] != "!voice" {
		return
	}

	sub := ""
	if len(fields) > 1 {
		sub = fields[1]
	}
	args := fields[2:]

	switch sub {
	case "":
		b.reply(s, m, usage)
	case "report":
		b.handleReport(s, m, args)
	case "total":
		b.handleTotal(s, m)
	case "history":
		b.handleHistory(s, m, args)
	case "top":
		b.handleTop(s, m, args)
	case "channels":
		b.handleChannels(s, m, args)
	case "chantop":
		b.handleChannelTop(s, m, args)
	case "current":
		b.handleCurrent(s, m)
	case "hours":
		b.handleHours(s, m, args)
	case "days":
		b.handleDays(s, m, args)
	case "trend":
		b.handleTrend(s, m, args)
	case "peak":
		b.handlePeak(s, m, args)
	case "unique":
		b.handleUnique(s, m, args)
	case "solo":
		b.handleSolo(s, m, args)
	default:
		b.reply(s, m, usage)
	}
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, text); err != nil {
		b.logger.Error().Err(err).Str("channel", m.ChannelID).Msg("failed to send reply")
	}
}

const usage = "Usage:\n" +
	"`!voice report [days]` — your voice time\n" +
	"`!voice total` — your lifetime total\n" +
	"`!voice history [limit]` — your recent sessions\n" +
	"`!voice top [days]` — top users\n" +
	"`!voice channels [days]` — top channels\n" +
	"`!voice chantop <#channel> [days]` — top users in a channel\n" +
	"`!voice current` — who is in voice now\n" +
	"`!voice hours [days]` — load by hour of day\n" +
	"`!voice days [days]` — load by weekday\n" +
	"`!voice trend [days]` — daily trend\n" +
	"`!voice peak [days]` — peak concurrency\n" +
	"`!voice unique [days]` — unique participants per day\n" +
	"`!voice solo [days]` — alone time leaderboard"

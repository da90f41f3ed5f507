package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"voicestats/internal/config"
	"voicestats/internal/database"
	"voicestats/internal/discord"
	"voicestats/internal/stats"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.New(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	repository := database.NewRepository(db)

	loc := stats.ResolveLocation(cfg.Timezone)
	if loc.String() != cfg.Timezone {
		logger.Warn().Str("timezone", cfg.Timezone).Msg("unknown timezone, using UTC")
	}

	bot, err := discord.New(cfg.DiscordToken, repository, loc, cfg.AFKChannelID, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Discord bot")
	}

	if err := bot.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start bot")
	}
	defer bot.Stop()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info().Msg("shutting down bot")
}

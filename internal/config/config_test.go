package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_DSN", "postgres://localhost/voicestats")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("AFK_CHANNEL_ID", "12345")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "postgres://localhost/voicestats", cfg.DatabaseDSN)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "12345", cfg.AFKChannelID)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_DSN", "dsn")
	t.Setenv("TIMEZONE", "")
	t.Setenv("AFK_CHANNEL_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Stockholm", cfg.Timezone)
	assert.Empty(t, cfg.AFKChannelID)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_DSN", "dsn")

	_, err := Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "DISCORD_TOKEN", cfgErr.Field)
}

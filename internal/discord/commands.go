package discord

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"voicestats/internal/models"
	"voicestats/internal/stats"
	"voicestats/pkg/utils"
)

const secondsPerDay = 86400

// parseDays returns the day-count argument, clamped to [1, 365]
func parseDays(args []string, def int) int {
	if len(args) == 0 {
		return def
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return def
	}
	if n > 365 {
		return 365
	}
	return n
}

// parseLimit returns the row-limit argument, clamped to [1, 20]
func parseLimit(args []string, def int) int {
	if len(args) == 0 {
		return def
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > 20 {
		return 20
	}
	return n
}

// statsWindow captures now once, fetches the overlapping sessions and
// builds the engine window for them. Every aggregate computed from the
// returned pair agrees on the same instant.
func (b *Bot) statsWindow(guildID string, days int) ([]models.VoiceSession, stats.Window, error) {
	now := time.Now().Unix()
	since := now - int64(days)*secondsPerDay
	sessions, err := b.repository.OverlappingSessions(guildID, since, now)
	if err != nil {
		return nil, stats.Window{}, err
	}
	w := stats.Window{
		Since:             since,
		Now:               now,
		Loc:               b.loc,
		ExcludedChannelID: b.afkChannelID,
	}
	return sessions, w, nil
}

func (b *Bot) handleReport(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	now := time.Now().Unix()
	since := now - int64(days)*secondsPerDay

	total, err := b.repository.UserTotalSeconds(m.GuildID, m.Author.ID, since, now, b.afkChannelID)
	if err != nil {
		b.logger.Error().Err(err).Msg("report query failed")
		b.reply(s, m, "Could not fetch your voice time.")
		return
	}

	b.reply(s, m, fmt.Sprintf("🎧 %s: last %dd **%s**",
		utils.FormatUserMention(m.Author.ID), days, utils.FormatDuration(total)))
}

func (b *Bot) handleTotal(s *discordgo.Session, m *discordgo.MessageCreate) {
	now := time.Now().Unix()

	total, err := b.repository.UserTotalSeconds(m.GuildID, m.Author.ID, 0, now, b.afkChannelID)
	if err != nil {
		b.logger.Error().Err(err).Msg("total query failed")
		b.reply(s, m, "Could not fetch your voice time.")
		return
	}

	b.reply(s, m, fmt.Sprintf("📊 %s: lifetime **%s**",
		utils.FormatUserMention(m.Author.ID), utils.FormatDuration(total)))
}

func (b *Bot) handleHistory(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	limit := parseLimit(args, 5)

	sessions, err := b.repository.UserRecentSessions(m.GuildID, m.Author.ID, limit, b.afkChannelID)
	if err != nil {
		b.logger.Error().Err(err).Msg("history query failed")
		b.reply(s, m, "Could not fetch your sessions.")
		return
	}
	if len(sessions) == 0 {
		b.reply(s, m, "No sessions found.")
		return
	}

	now := time.Now().Unix()
	var lines []string
	for _, sess := range sessions {
		started := time.Unix(sess.JoinedTS, 0).In(b.loc).Format("2006-01-02 15:04")
		lines = append(lines, fmt.Sprintf("• %s — %s (%s)",
			utils.FormatChannelMention(sess.ChannelID), started,
			utils.FormatDuration(sess.DurationSeconds(now))))
	}
	b.reply(s, m, "📜 Your recent sessions:\n"+strings.Join(lines, "\n"))
}

func (b *Bot) handleTop(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	now := time.Now().Unix()
	since := now - int64(days)*secondsPerDay

	totals, err := b.repository.TopUsers(m.GuildID, since, now, 10, b.afkChannelID)
	if err != nil {
		b.logger.Error().Err(err).Msg("top query failed")
		b.reply(s, m, "Could not fetch the leaderboard.")
		return
	}
	if len(totals) == 0 {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}

	var lines []string
	for i, t := range totals {
		lines = append(lines, utils.FormatLeaderboardEntry(i+1,
			utils.FormatUserMention(t.UserID), utils.FormatDuration(t.TotalSeconds)))
	}
	b.reply(s, m, fmt.Sprintf("**Top voice time (last %dd):**\n%s", days, strings.Join(lines, "\n")))
}

func (b *Bot) handleChannels(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	now := time.Now().Unix()
	since := now - int64(days)*secondsPerDay

	totals, err := b.repository.TopChannels(m.GuildID, since, now, 10, b.afkChannelID)
	if err != nil {
		b.logger.Error().Err(err).Msg("channels query failed")
		b.reply(s, m, "Could not fetch the channel leaderboard.")
		return
	}
	if len(totals) == 0 {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}

	var lines []string
	for i, t := range totals {
		lines = append(lines, utils.FormatLeaderboardEntry(i+1,
			utils.FormatChannelMention(t.ChannelID), utils.FormatDuration(t.TotalSeconds)))
	}
	b.reply(s, m, fmt.Sprintf("**Top channels (last %dd):**\n%s", days, strings.Join(lines, "\n")))
}

func (b *Bot) handleChannelTop(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(s, m, "Usage: `!voice chantop <#channel> [days]`")
		return
	}
	channelID := utils.ExtractChannelIDFromMention(args[0])
	if b.afkChannelID != "" && channelID == b.afkChannelID {
		b.reply(s, m, fmt.Sprintf("AFK channel %s is excluded from stats.",
			utils.FormatChannelMention(channelID)))
		return
	}

	days := parseDays(args[1:], 7)
	now := time.Now().Unix()
	since := now - int64(days)*secondsPerDay

	totals, err := b.repository.ChannelTopUsers(m.GuildID, channelID, since, now, 10)
	if err != nil {
		b.logger.Error().Err(err).Msg("chantop query failed")
		b.reply(s, m, "Could not fetch the channel leaderboard.")
		return
	}
	if len(totals) == 0 {
		b.reply(s, m, fmt.Sprintf("No activity in %s in the last %dd.",
			utils.FormatChannelMention(channelID), days))
		return
	}

	var lines []string
	for i, t := range totals {
		lines = append(lines, utils.FormatLeaderboardEntry(i+1,
			utils.FormatUserMention(t.UserID), utils.FormatDuration(t.TotalSeconds)))
	}
	b.reply(s, m, fmt.Sprintf("**Top voice in %s (last %dd):**\n%s",
		utils.FormatChannelMention(channelID), days, strings.Join(lines, "\n")))
}

func (b *Bot) handleCurrent(s *discordgo.Session, m *discordgo.MessageCreate) {
	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		b.logger.Error().Err(err).Msg("guild state lookup failed")
		b.reply(s, m, "Could not read the guild state.")
		return
	}

	byChannel := make(map[string][]string)
	var channels []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == "" {
			continue
		}
		if _, seen := byChannel[vs.ChannelID]; !seen {
			channels = append(channels, vs.ChannelID)
		}
		byChannel[vs.ChannelID] = append(byChannel[vs.ChannelID], utils.FormatUserMention(vs.UserID))
	}
	if len(channels) == 0 {
		b.reply(s, m, "No one is in voice right now.")
		return
	}

	sort.Strings(channels)
	var lines []string
	for _, ch := range channels {
		lines = append(lines, fmt.Sprintf("🔊 %s: %s",
			utils.FormatChannelMention(ch), strings.Join(byChannel[ch], ", ")))
	}
	b.reply(s, m, strings.Join(lines, "\n"))
}

func (b *Bot) handleHours(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	sessions, w, err := b.statsWindow(m.GuildID, days)
	if err != nil {
		b.logger.Error().Err(err).Msg("hours query failed")
		b.reply(s, m, "Could not fetch sessions.")
		return
	}

	buckets := stats.HourOfDay(sessions, w)
	chart := renderHourHistogram(buckets)
	if chart == "" {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}
	b.reply(s, m, fmt.Sprintf("🕐 **Voice load by hour (last %dd, %s):**\n```\n%s```",
		days, b.loc, chart))
}

func (b *Bot) handleDays(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	sessions, w, err := b.statsWindow(m.GuildID, days)
	if err != nil {
		b.logger.Error().Err(err).Msg("days query failed")
		b.reply(s, m, "Could not fetch sessions.")
		return
	}

	buckets := stats.Weekday(sessions, w)
	chart := renderWeekdayHistogram(buckets)
	if chart == "" {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}
	b.reply(s, m, fmt.Sprintf("📅 **Voice load by weekday (last %dd, %s):**\n```\n%s```",
		days, b.loc, chart))
}

func (b *Bot) handleTrend(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 30)
	sessions, w, err := b.statsWindow(m.GuildID, days)
	if err != nil {
		b.logger.Error().Err(err).Msg("trend query failed")
		b.reply(s, m, "Could not fetch sessions.")
		return
	}

	totals := stats.DailyTotals(sessions, w)
	if len(totals) == 0 {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}
	b.reply(s, m, fmt.Sprintf("📈 **Daily voice hours (last %dd, %s):**\n```\n%s\n```",
		days, b.loc, renderTrend(totals, w)))
}

func (b *Bot) handlePeak(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	sessions, w, err := b.statsWindow(m.GuildID, days)
	if err != nil {
		b.logger.Error().Err(err).Msg("peak query failed")
		b.reply(s, m, "Could not fetch sessions.")
		return
	}

	peak, perDay := stats.PeakConcurrency(sessions, w)
	if peak == 0 {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}
	b.reply(s, m, fmt.Sprintf("📈 Peak concurrency (last %dd): **%d users**\nBusiest days:\n%s",
		days, peak, renderBusiestDays(perDay, 5)))
}

func (b *Bot) handleUnique(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	sessions, w, err := b.statsWindow(m.GuildID, days)
	if err != nil {
		b.logger.Error().Err(err).Msg("unique query failed")
		b.reply(s, m, "Could not fetch sessions.")
		return
	}

	counts := stats.UniqueUsersPerDay(sessions, w)
	if len(counts) == 0 {
		b.reply(s, m, fmt.Sprintf("No voice activity in the last %dd.", days))
		return
	}
	b.reply(s, m, fmt.Sprintf("👥 **Unique participants per day (last %dd):**\n%s",
		days, renderDailyCounts(counts)))
}

func (b *Bot) handleSolo(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	days := parseDays(args, 7)
	sessions, w, err := b.statsWindow(m.GuildID, days)
	if err != nil {
		b.logger.Error().Err(err).Msg("solo query failed")
		b.reply(s, m, "Could not fetch sessions.")
		return
	}

	totals := stats.SoloTime(sessions, w)
	entries := sortedUserTotals(totals)
	if len(entries) == 0 {
		b.reply(s, m, fmt.Sprintf("No one was alone in voice in the last %dd.", days))
		return
	}
	if len(entries) > 10 {
		entries = entries[:10]
	}

	var lines []string
	for i, e := range entries {
		lines = append(lines, utils.FormatLeaderboardEntry(i+1,
			utils.FormatUserMention(e.UserID), utils.FormatDuration(e.TotalSeconds)))
	}
	b.reply(s, m, fmt.Sprintf("🪑 **Alone time (last %dd):**\n%s", days, strings.Join(lines, "\n")))
}

// sortedUserTotals flattens a totals map into a slice ordered by seconds
// descending, user id ascending on ties. Zero totals are dropped.
func sortedUserTotals(totals map[string]int64) []models.UserTotal {
	entries := make([]models.UserTotal, 0, len(totals))
	for userID, seconds := range totals {
		if seconds <= 0 {
			continue
		}
		entries = append(entries, models.UserTotal{UserID: userID, TotalSeconds: seconds})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalSeconds != entries[j].TotalSeconds {
			return entries[i].TotalSeconds > entries[j].TotalSeconds
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

package database

import (
	"database/sql"
	"fmt"

	"voicestats/internal/models"
)

// Repository handles voice session persistence and queries
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// OpenSession records that a user entered a voice channel
func (r *Repository) OpenSession(guildID, userID, channelID string, joinedTS int64) error {
	_, err := r.db.conn.Exec(`
		INSERT INTO voice_sessions (guild_id, user_id, channel_id, joined_ts)
		VALUES ($1, $2, $3, $4)`,
		guildID, userID, channelID, joinedTS)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	return nil
}

// CloseSession closes the open session for a user, if any
func (r *Repository) CloseSession(guildID, userID string, leftTS int64) error {
	_, err := r.db.conn.Exec(`
		UPDATE voice_sessions SET left_ts = $3
		WHERE guild_id = $1 AND user_id = $2 AND left_ts IS NULL`,
		guildID, userID, leftTS)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// SwitchChannel closes the user's open session and opens a new one in the
// target channel at the same instant, in one transaction.
func (r *Repository) SwitchChannel(guildID, userID, channelID string, ts int64) error {
	tx, err := r.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin switch: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE voice_sessions SET left_ts = $3
		WHERE guild_id = $1 AND user_id = $2 AND left_ts IS NULL`,
		guildID, userID, ts); err != nil {
		return fmt.Errorf("failed to close session on switch: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO voice_sessions (guild_id, user_id, channel_id, joined_ts)
		VALUES ($1, $2, $3, $4)`,
		guildID, userID, channelID, ts); err != nil {
		return fmt.Errorf("failed to open session on switch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit switch: %w", err)
	}
	return nil
}

// OpenChannel returns the channel of the user's open session, if one exists
func (r *Repository) OpenChannel(guildID, userID string) (string, bool, error) {
	var channelID string
	err := r.db.conn.QueryRow(`
		SELECT channel_id FROM voice_sessions
		WHERE guild_id = $1 AND user_id = $2 AND left_ts IS NULL
		ORDER BY joined_ts DESC LIMIT 1`,
		guildID, userID).Scan(&channelID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query open session: %w", err)
	}
	return channelID, true, nil
}

// OverlappingSessions returns every session whose occupancy interval
// overlaps [since, now]. This is the read contract the stats engine
// aggregates over; open sessions are returned with a nil LeftTS.
func (r *Repository) OverlappingSessions(guildID string, since, now int64) ([]models.VoiceSession, error) {
	rows, err := r.db.conn.Query(`
		SELECT id, guild_id, user_id, channel_id, joined_ts, left_ts
		FROM voice_sessions
		WHERE guild_id = $1 AND joined_ts < $3 AND COALESCE(left_ts, $3) > $2
		ORDER BY joined_ts`,
		guildID, since, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.VoiceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UserTotalSeconds sums the user's clamped voice time inside [since, now],
// excluding the AFK channel when one is configured.
func (r *Repository) UserTotalSeconds(guildID, userID string, since, now int64, excludedChannelID string) (int64, error) {
	var total sql.NullInt64
	err := r.db.conn.QueryRow(`
		SELECT SUM(LEAST(COALESCE(left_ts, $4), $4) - GREATEST(joined_ts, $3))
		FROM voice_sessions
		WHERE guild_id = $1 AND user_id = $2
		  AND joined_ts < $4 AND COALESCE(left_ts, $4) > $3
		  AND ($5 = '' OR channel_id <> $5)`,
		guildID, userID, since, now, excludedChannelID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum voice time: %w", err)
	}
	return total.Int64, nil
}

// UserRecentSessions returns the user's most recent sessions, newest first
func (r *Repository) UserRecentSessions(guildID, userID string, limit int, excludedChannelID string) ([]models.VoiceSession, error) {
	rows, err := r.db.conn.Query(`
		SELECT id, guild_id, user_id, channel_id, joined_ts, left_ts
		FROM voice_sessions
		WHERE guild_id = $1 AND user_id = $2
		  AND ($4 = '' OR channel_id <> $4)
		ORDER BY joined_ts DESC
		LIMIT $3`,
		guildID, userID, limit, excludedChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.VoiceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// TopUsers returns the users with the most clamped voice time in the window
func (r *Repository) TopUsers(guildID string, since, now int64, limit int, excludedChannelID string) ([]models.UserTotal, error) {
	rows, err := r.db.conn.Query(`
		SELECT user_id, SUM(LEAST(COALESCE(left_ts, $3), $3) - GREATEST(joined_ts, $2)) AS total
		FROM voice_sessions
		WHERE guild_id = $1 AND joined_ts < $3 AND COALESCE(left_ts, $3) > $2
		  AND ($5 = '' OR channel_id <> $5)
		GROUP BY user_id
		ORDER BY total DESC
		LIMIT $4`,
		guildID, since, now, limit, excludedChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer rows.Close()

	var totals []models.UserTotal
	for rows.Next() {
		var t models.UserTotal
		if err := rows.Scan(&t.UserID, &t.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan top user row: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// TopChannels returns the channels with the most clamped voice time in the window
func (r *Repository) TopChannels(guildID string, since, now int64, limit int, excludedChannelID string) ([]models.ChannelTotal, error) {
	rows, err := r.db.conn.Query(`
		SELECT channel_id, SUM(LEAST(COALESCE(left_ts, $3), $3) - GREATEST(joined_ts, $2)) AS total
		FROM voice_sessions
		WHERE guild_id = $1 AND joined_ts < $3 AND COALESCE(left_ts, $3) > $2
		  AND ($5 = '' OR channel_id <> $5)
		GROUP BY channel_id
		ORDER BY total DESC
		LIMIT $4`,
		guildID, since, now, limit, excludedChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query top channels: %w", err)
	}
	defer rows.Close()

	var totals []models.ChannelTotal
	for rows.Next() {
		var t models.ChannelTotal
		if err := rows.Scan(&t.ChannelID, &t.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan top channel row: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// ChannelTopUsers returns the users with the most clamped voice time in one channel
func (r *Repository) ChannelTopUsers(guildID, channelID string, since, now int64, limit int) ([]models.UserTotal, error) {
	rows, err := r.db.conn.Query(`
		SELECT user_id, SUM(LEAST(COALESCE(left_ts, $4), $4) - GREATEST(joined_ts, $3)) AS total
		FROM voice_sessions
		WHERE guild_id = $1 AND channel_id = $2
		  AND joined_ts < $4 AND COALESCE(left_ts, $4) > $3
		GROUP BY user_id
		ORDER BY total DESC
		LIMIT $5`,
		guildID, channelID, since, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel top users: %w", err)
	}
	defer rows.Close()

	var totals []models.UserTotal
	for rows.Next() {
		var t models.UserTotal
		if err := rows.Scan(&t.UserID, &t.TotalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan channel top row: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func scanSession(rows *sql.Rows) (models.VoiceSession, error) {
	var s models.VoiceSession
	var left sql.NullInt64
	if err := rows.Scan(&s.ID, &s.GuildID, &s.UserID, &s.ChannelID, &s.JoinedTS, &left); err != nil {
		return models.VoiceSession{}, fmt.Errorf("failed to scan session row: %w", err)
	}
	if left.Valid {
		s.LeftTS = &left.Int64
	}
	return s, nil
}

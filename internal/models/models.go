package models

// VoiceSession represents one continuous stay in one voice channel by one
// user. LeftTS is nil while the session is still open.
type VoiceSession struct {
	ID        int64
	GuildID   string
	UserID    string
	ChannelID string
	JoinedTS  int64
	LeftTS    *int64
}

// Open reports whether the session has not been closed yet.
func (s VoiceSession) Open() bool {
	return s.LeftTS == nil
}

// DurationSeconds returns the session length in seconds, using now as the
// end for open sessions.
func (s VoiceSession) DurationSeconds(now int64) int64 {
	end := now
	if s.LeftTS != nil {
		end = *s.LeftTS
	}
	if end < s.JoinedTS {
		return 0
	}
	return end - s.JoinedTS
}

// UserTotal represents accumulated voice seconds for a user
type UserTotal struct {
	UserID       string
	TotalSeconds int64
}

// ChannelTotal represents accumulated voice seconds for a channel
type ChannelTotal struct {
	ChannelID    string
	TotalSeconds int64
}

// Package stats is the interval aggregation engine. It turns raw voice
// session records into time-bucketed aggregates: hour-of-day and weekday
// load, daily totals, peak concurrency, unique participants per day and
// per-user solo time.
//
// Every function is a pure computation over an immutable snapshot of
// sessions and an explicit Window; nothing here performs I/O, logs, or
// keeps state between calls.
package stats

import (
	"time"

	"voicestats/internal/models"
)

// Window bounds one aggregation request. Since and Now are epoch seconds,
// Loc is the calendar timezone for bucket boundaries, and ExcludedChannelID
// drops the AFK channel from every aggregate ("" disables exclusion).
//
// Now is captured once by the caller so that all computations within one
// request agree on the same instant.
type Window struct {
	Since             int64
	Now               int64
	Loc               *time.Location
	ExcludedChannelID string
}

// included applies the exclusion policy: a session in the excluded channel
// is dropped entirely, all-in or all-out.
func included(s models.VoiceSession, excludedChannelID string) bool {
	return excludedChannelID == "" || s.ChannelID != excludedChannelID
}

// clamp intersects a session with [since, now]. Open sessions end at now.
// ok is false when nothing of the session falls inside the window; that is
// a query-boundary artifact, not an error.
func clamp(s models.VoiceSession, since, now int64) (start, end int64, ok bool) {
	start = s.JoinedTS
	if since > start {
		start = since
	}
	end = now
	if s.LeftTS != nil && *s.LeftTS < now {
		end = *s.LeftTS
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// eachClamped invokes fn for every non-excluded session with its clamped
// interval. All aggregators funnel their input through this.
func (w Window) eachClamped(sessions []models.VoiceSession, fn func(s models.VoiceSession, start, end int64)) {
	for _, s := range sessions {
		if !included(s, w.ExcludedChannelID) {
			continue
		}
		start, end, ok := clamp(s, w.Since, w.Now)
		if !ok {
			continue
		}
		fn(s, start, end)
	}
}

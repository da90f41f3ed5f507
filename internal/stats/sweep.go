package stats

import (
	"sort"
	"time"

	"voicestats/internal/models"
)

// event marks one end of a clamped interval during a sweep. delta is +1
// for a join and -1 for a leave; user is only set for the solo sweep.
type event struct {
	ts    int64
	delta int
	user  string
}

// sortEvents orders events by (timestamp, delta) ascending. At equal
// timestamps a leave (-1) sorts before a join (+1), so a user departing
// exactly when another arrives never counts as a transient overlap.
func sortEvents(events []event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].ts != events[j].ts {
			return events[i].ts < events[j].ts
		}
		return events[i].delta < events[j].delta
	})
}

// PeakConcurrency computes the maximum number of simultaneous occupants
// across all channels, overall and per local calendar day.
//
// A day's peak is sampled at event timestamps falling on that day. A
// session spanning midnight credits its boundary events to the days they
// fall in, not to every day it overlaps, so a quiet day in the middle of
// a long session can under-report; this matches the behavior the rest of
// the system was built around.
func PeakConcurrency(sessions []models.VoiceSession, w Window) (int, map[string]int) {
	var events []event
	w.eachClamped(sessions, func(_ models.VoiceSession, start, end int64) {
		events = append(events, event{ts: start, delta: +1}, event{ts: end, delta: -1})
	})
	sortEvents(events)

	peak := 0
	perDay := make(map[string]int)
	current := 0
	for _, ev := range events {
		current += ev.delta
		if current > peak {
			peak = current
		}
		day := time.Unix(ev.ts, 0).In(w.Loc).Format(DateFormat)
		if current > perDay[day] {
			perDay[day] = current
		}
	}
	return peak, perDay
}

// SoloTime computes, per user, how long they were the only occupant of a
// channel, summed across all channels. Each channel is swept on its own:
// between consecutive events, if exactly one user is present, the elapsed
// time is credited to that user.
func SoloTime(sessions []models.VoiceSession, w Window) map[string]int64 {
	byChannel := make(map[string][]event)
	w.eachClamped(sessions, func(s models.VoiceSession, start, end int64) {
		byChannel[s.ChannelID] = append(byChannel[s.ChannelID],
			event{ts: start, delta: +1, user: s.UserID},
			event{ts: end, delta: -1, user: s.UserID})
	})

	totals := make(map[string]int64)
	for _, events := range byChannel {
		sortEvents(events)
		present := make(map[string]struct{})
		var prev int64
		for _, ev := range events {
			if len(present) == 1 {
				for user := range present {
					totals[user] += ev.ts - prev
				}
			}
			if ev.delta > 0 {
				present[ev.user] = struct{}{}
			} else {
				delete(present, ev.user)
			}
			prev = ev.ts
		}
	}
	return totals
}

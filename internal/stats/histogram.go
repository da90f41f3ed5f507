package stats

import (
	"time"

	"voicestats/internal/models"
)

// DateFormat is the bucket key layout for calendar-day aggregates.
const DateFormat = "2006-01-02"

// HourOfDay redistributes voice time into 24 local hour-of-day buckets.
// A session crossing hour boundaries contributes to each hour it actually
// overlaps; bucket totals always sum to the clamped session durations.
func HourOfDay(sessions []models.VoiceSession, w Window) [24]int64 {
	var buckets [24]int64
	w.eachClamped(sessions, func(_ models.VoiceSession, start, end int64) {
		eachSpan(start, end, w.Loc, byHour, func(local time.Time, seconds int64) {
			buckets[local.Hour()] += seconds
		})
	})
	return buckets
}

// Weekday redistributes voice time into 7 weekday buckets, Monday first
// (index 0 = Monday, 6 = Sunday), split at local midnight boundaries.
func Weekday(sessions []models.VoiceSession, w Window) [7]int64 {
	var buckets [7]int64
	w.eachClamped(sessions, func(_ models.VoiceSession, start, end int64) {
		eachSpan(start, end, w.Loc, byDay, func(local time.Time, seconds int64) {
			buckets[mondayIndex(local.Weekday())] += seconds
		})
	})
	return buckets
}

// DailyTotals returns voice seconds per local calendar day, keyed
// YYYY-MM-DD. Days without activity have no entry.
func DailyTotals(sessions []models.VoiceSession, w Window) map[string]int64 {
	totals := make(map[string]int64)
	w.eachClamped(sessions, func(_ models.VoiceSession, start, end int64) {
		eachSpan(start, end, w.Loc, byDay, func(local time.Time, seconds int64) {
			totals[local.Format(DateFormat)] += seconds
		})
	})
	return totals
}

// UniqueUsersPerDay counts distinct participants per local calendar day.
// Presence is length-independent: any non-empty overlap with a day counts
// that user once for that day.
func UniqueUsersPerDay(sessions []models.VoiceSession, w Window) map[string]int {
	seen := make(map[string]map[string]struct{})
	w.eachClamped(sessions, func(s models.VoiceSession, start, end int64) {
		eachSpan(start, end, w.Loc, byDay, func(local time.Time, _ int64) {
			day := local.Format(DateFormat)
			if seen[day] == nil {
				seen[day] = make(map[string]struct{})
			}
			seen[day][s.UserID] = struct{}{}
		})
	})
	counts := make(map[string]int, len(seen))
	for day, users := range seen {
		counts[day] = len(users)
	}
	return counts
}

// mondayIndex converts time.Weekday (Sunday = 0) to a Monday-first index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

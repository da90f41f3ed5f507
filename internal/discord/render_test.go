package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voicestats/internal/stats"
)

func TestRenderHourHistogram(t *testing.T) {
	var buckets [24]int64
	assert.Empty(t, renderHourHistogram(buckets))

	buckets[9] = 7200
	buckets[22] = 3600
	out := renderHourHistogram(buckets)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 24)
	assert.Contains(t, lines[9], "2h 0m")
	assert.Contains(t, lines[22], "1h 0m")
	assert.True(t, strings.HasPrefix(lines[0], "00 │"))
}

func TestRenderWeekdayHistogram(t *testing.T) {
	var buckets [7]int64
	assert.Empty(t, renderWeekdayHistogram(buckets))

	buckets[0] = 3600
	out := renderWeekdayHistogram(buckets)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "Mon │"))
	assert.True(t, strings.HasPrefix(lines[6], "Sun │"))
}

func TestRenderTrendCoversEveryDay(t *testing.T) {
	loc := time.UTC
	since := time.Date(2024, 6, 1, 12, 0, 0, 0, loc).Unix()
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, loc).Unix()
	w := stats.Window{Since: since, Now: now, Loc: loc}

	out := renderTrend(map[string]int64{"2024-06-02": 7200}, w)
	assert.Contains(t, out, "hours per day")
	assert.NotEmpty(t, out)
}

func TestRenderBusiestDays(t *testing.T) {
	out := renderBusiestDays(map[string]int{
		"2024-06-01": 2,
		"2024-06-02": 5,
		"2024-06-03": 5,
	}, 2)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2024-06-02")
	assert.Contains(t, lines[1], "2024-06-03")
}

func TestRenderDailyCountsChronological(t *testing.T) {
	out := renderDailyCounts(map[string]int{
		"2024-06-02": 3,
		"2024-06-01": 1,
	})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2024-06-01")
	assert.Contains(t, lines[1], "2024-06-02")
}

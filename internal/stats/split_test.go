package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocationFallsBackToUTC(t *testing.T) {
	loc := ResolveLocation("Not/AZone")
	_, offset := time.Now().In(loc).Zone()
	assert.Zero(t, offset)

	assert.Equal(t, time.UTC, ResolveLocation("UTC"))
}

func TestEachSpanHourBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC+5:30", 5*3600+1800)
	// 10:45 to 12:20 local: spans 10, 11 and 12 o'clock.
	start := time.Date(2024, 6, 3, 10, 45, 0, 0, loc).Unix()
	end := time.Date(2024, 6, 3, 12, 20, 0, 0, loc).Unix()

	var hours []int
	var lengths []int64
	eachSpan(start, end, loc, byHour, func(local time.Time, seconds int64) {
		hours = append(hours, local.Hour())
		lengths = append(lengths, seconds)
	})

	assert.Equal(t, []int{10, 11, 12}, hours)
	assert.Equal(t, []int64{15 * 60, 60 * 60, 20 * 60}, lengths)
}

func TestEachSpanDayBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	start := time.Date(2024, 6, 3, 23, 0, 0, 0, loc).Unix()
	end := time.Date(2024, 6, 5, 1, 0, 0, 0, loc).Unix()

	var days []string
	var lengths []int64
	eachSpan(start, end, loc, byDay, func(local time.Time, seconds int64) {
		days = append(days, local.Format(DateFormat))
		lengths = append(lengths, seconds)
	})

	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, days)
	assert.Equal(t, []int64{3600, 86400, 3600}, lengths)
}

// A multi-year open interval split hourly still conserves its duration and
// emits one span per boundary crossed.
func TestEachSpanLongIntervalConservation(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	start := time.Date(2022, 1, 1, 7, 12, 0, 0, loc).Unix()
	end := time.Date(2024, 2, 2, 3, 40, 0, 0, loc).Unix()

	var total int64
	spans := 0
	eachSpan(start, end, loc, byHour, func(_ time.Time, seconds int64) {
		total += seconds
		spans++
		require.Positive(t, seconds)
	})

	assert.Equal(t, end-start, total)
	// First and last partial hours plus one span per full boundary.
	assert.Greater(t, spans, int((end-start)/secondsPerHour))
}

func TestEachSpanEmptyInterval(t *testing.T) {
	called := false
	eachSpan(100, 100, time.UTC, byHour, func(time.Time, int64) {
		called = true
	})
	assert.False(t, called)
}

// Conservation must survive real DST transitions: the skipped hour on
// spring-forward and the repeated hour on fall-back.
func TestEachSpanDSTConservation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{
			// 2024-03-31 02:00 CET jumps to 03:00 CEST.
			name:  "spring forward",
			start: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 31, 6, 0, 0, 0, time.UTC),
		},
		{
			// 2024-10-27 03:00 CEST falls back to 02:00 CET.
			name:  "fall back",
			start: time.Date(2024, 10, 26, 22, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 10, 27, 4, 0, 0, 0, time.UTC),
		},
		{
			name:  "week around spring forward",
			start: time.Date(2024, 3, 28, 13, 30, 0, 0, time.UTC),
			end:   time.Date(2024, 4, 2, 9, 45, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.start.Unix(), tt.end.Unix()
			for _, g := range []granularity{byHour, byDay} {
				var total int64
				eachSpan(start, end, loc, g, func(_ time.Time, seconds int64) {
					require.Positive(t, seconds)
					total += seconds
				})
				assert.Equal(t, end-start, total)
			}
		})
	}
}

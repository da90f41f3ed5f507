package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"voicestats/internal/stats"
	"voicestats/pkg/utils"
)

const barWidth = 20

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// renderHourHistogram renders the 24 hour buckets as labelled text bars.
// Returns "" when every bucket is empty.
func renderHourHistogram(buckets [24]int64) string {
	max := maxBucket(buckets[:])
	if max == 0 {
		return ""
	}

	var sb strings.Builder
	for h, v := range buckets {
		if v == 0 {
			fmt.Fprintf(&sb, "%02d │\n", h)
			continue
		}
		fmt.Fprintf(&sb, "%02d │%s %s\n", h, utils.Bar(v, max, barWidth), utils.FormatDuration(v))
	}
	return sb.String()
}

// renderWeekdayHistogram renders the 7 weekday buckets, Monday first.
// Returns "" when every bucket is empty.
func renderWeekdayHistogram(buckets [7]int64) string {
	max := maxBucket(buckets[:])
	if max == 0 {
		return ""
	}

	var sb strings.Builder
	for d, v := range buckets {
		if v == 0 {
			fmt.Fprintf(&sb, "%s │\n", weekdayNames[d])
			continue
		}
		fmt.Fprintf(&sb, "%s │%s %s\n", weekdayNames[d], utils.Bar(v, max, barWidth), utils.FormatDuration(v))
	}
	return sb.String()
}

// renderTrend plots voice hours per day over the window as a line chart.
// Days without activity plot as zero so the x axis stays continuous.
func renderTrend(totals map[string]int64, w stats.Window) string {
	day := startOfDay(w.Since, w.Loc)
	endDay := startOfDay(w.Now, w.Loc)

	var data []float64
	for !day.After(endDay) {
		data = append(data, float64(totals[day.Format(stats.DateFormat)])/3600)
		day = day.AddDate(0, 0, 1)
	}

	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Caption("hours per day"))
}

// renderBusiestDays lists the top-n days by peak concurrency
func renderBusiestDays(perDay map[string]int, n int) string {
	type dayPeak struct {
		day  string
		peak int
	}
	days := make([]dayPeak, 0, len(perDay))
	for day, peak := range perDay {
		days = append(days, dayPeak{day, peak})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].peak != days[j].peak {
			return days[i].peak > days[j].peak
		}
		return days[i].day < days[j].day
	})
	if len(days) > n {
		days = days[:n]
	}

	var lines []string
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("• %s — %d users", d.day, d.peak))
	}
	return strings.Join(lines, "\n")
}

// renderDailyCounts lists per-day counts in chronological order
func renderDailyCounts(counts map[string]int) string {
	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	var lines []string
	for _, day := range days {
		lines = append(lines, fmt.Sprintf("• %s — %d", day, counts[day]))
	}
	return strings.Join(lines, "\n")
}

func startOfDay(ts int64, loc *time.Location) time.Time {
	local := time.Unix(ts, 0).In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func maxBucket(buckets []int64) int64 {
	var max int64
	for _, v := range buckets {
		if v > max {
			max = v
		}
	}
	return max
}

package stats

import "time"

type granularity int

const (
	byHour granularity = iota
	byDay
)

const secondsPerHour = 3600

// ResolveLocation loads an IANA timezone by name, falling back to a fixed
// UTC zone when the name cannot be resolved. Aggregation never fails on a
// bad timezone.
func ResolveLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("UTC", 0)
	}
	return loc
}

// eachSpan walks the interval [start, end) and cuts it at local hour or
// local midnight boundaries in loc. fn receives the local civil time at
// the start of each sub-span and the sub-span length in seconds.
//
// The emitted lengths always sum to end-start: each iteration advances the
// cursor to min(next boundary, end), so nothing is double counted or lost.
// A session spanning years emits one span per boundary crossed.
func eachSpan(start, end int64, loc *time.Location, g granularity, fn func(local time.Time, seconds int64)) {
	cur := start
	for cur < end {
		local := time.Unix(cur, 0).In(loc)
		var next int64
		switch g {
		case byHour:
			next = time.Date(local.Year(), local.Month(), local.Day(), local.Hour()+1, 0, 0, 0, loc).Unix()
		default:
			next = time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).Unix()
		}
		if next <= cur {
			// A DST fold can repeat a local hour; force forward progress
			// so conservation still holds.
			next = cur + secondsPerHour
		}
		if next > end {
			next = end
		}
		fn(local, next-cur)
		cur = next
	}
}

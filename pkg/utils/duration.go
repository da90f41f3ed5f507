package utils

import (
	"fmt"
	"strings"
)

// FormatDuration formats seconds as "Xh Ym"
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", h, m)
}

// Bar renders value as a proportional block bar of at most width cells.
// A non-zero value always shows at least one cell.
func Bar(value, max int64, width int) string {
	if max <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	cells := int(value * int64(width) / max)
	if cells < 1 {
		cells = 1
	}
	if cells > width {
		cells = width
	}
	return strings.Repeat("█", cells)
}

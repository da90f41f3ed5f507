package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voicestats/internal/models"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		name string
		args []string
		def  int
		want int
	}{
		{"no args uses default", nil, 7, 7},
		{"valid value", []string{"30"}, 7, 30},
		{"not a number uses default", []string{"soon"}, 7, 7},
		{"zero uses default", []string{"0"}, 7, 7},
		{"negative uses default", []string{"-3"}, 7, 7},
		{"clamped to a year", []string{"9000"}, 7, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDays(tt.args, tt.def))
		})
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 5, parseLimit(nil, 5))
	assert.Equal(t, 12, parseLimit([]string{"12"}, 5))
	assert.Equal(t, 1, parseLimit([]string{"0"}, 5))
	assert.Equal(t, 20, parseLimit([]string{"100"}, 5))
	assert.Equal(t, 5, parseLimit([]string{"many"}, 5))
}

func TestSortedUserTotals(t *testing.T) {
	entries := sortedUserTotals(map[string]int64{
		"c": 50,
		"a": 100,
		"b": 100,
		"d": 0,
	})

	assert.Equal(t, []models.UserTotal{
		{UserID: "a", TotalSeconds: 100},
		{UserID: "b", TotalSeconds: 100},
		{UserID: "c", TotalSeconds: 50},
	}, entries)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayCount(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"same day", "2024-06-01", "2024-06-01", 1},
		{"three days inclusive", "2024-06-01", "2024-06-03", 3},
		{"rfc3339", "2024-06-01T08:00:00Z", "2024-06-02T20:00:00Z", 2},
		{"reversed", "2024-06-05", "2024-06-01", 1},
		{"missing end", "2024-06-01", "", 1},
		{"garbage start", "soon", "2024-06-01", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayCount(tt.start, tt.end))
		})
	}
}

func TestDateForDay(t *testing.T) {
	start := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-28", DateForDay(start, 1))
	assert.Equal(t, "2024-03-01", DateForDay(start, 3))
}

func TestParseISODateTruncatesToDay(t *testing.T) {
	got, ok := ParseISODate("2024-06-01T23:59:00Z")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseISODate("01/06/2024")
	assert.False(t, ok)
}

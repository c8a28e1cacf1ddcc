package utils

import (
	"math"
	"strings"
	"time"
)

// ISODate is the layout used for every date exchanged with clients and the model.
const ISODate = "2006-01-02"

// MaxTripDays bounds every generated itinerary.
const MaxTripDays = 30

// ParseISODate accepts "2006-01-02" and full RFC3339 timestamps; the result is truncated
// to a UTC calendar day.
func ParseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(ISODate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// DayCount returns the number of calendar days a trip spans, both ends included.
// Unparseable or reversed ranges count as a single day.
func DayCount(startDate, endDate string) int {
	start, ok := ParseISODate(startDate)
	if !ok {
		return 1
	}
	end, ok := ParseISODate(endDate)
	if !ok {
		return 1
	}
	diff := math.Ceil(end.Sub(start).Hours() / 24)
	if diff < 0 {
		return 1
	}
	return int(diff) + 1
}

// DateForDay returns the ISO date of the given 1-based day of a trip.
func DateForDay(start time.Time, day int) string {
	return start.AddDate(0, 0, day-1).Format(ISODate)
}

// TodayUTC is used as a start date when the client sent none we can read.
func TodayUTC() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

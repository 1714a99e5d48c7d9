package coerce

import (
	"fmt"
	"math"
	"time"
)

const (
	msPerDay = int64(24 * time.Hour / time.Millisecond)
	// Serial bounds accepted by spreadsheet applications (years 100 to 9999).
	minOADate = -657435.0
	maxOADate = 2958466.0
)

// OAEpoch is day zero of the spreadsheet day-serial scale.
var OAEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ToOADate converts the wall clock of t to a day serial. Precision is one
// millisecond. Before the epoch the integer part counts days backwards while
// the fraction still runs forward from midnight.
func ToOADate(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	ms := (wall.Unix()-OAEpoch.Unix())*1000 + int64(wall.Nanosecond())/int64(time.Millisecond)
	if ms < 0 {
		if frac := ms % msPerDay; frac != 0 {
			ms -= (msPerDay + frac) * 2
		}
	}
	return float64(ms) / float64(msPerDay)
}

// FromOADate converts a day serial to a wall clock time in loc.
func FromOADate(serial float64, loc *time.Location) (time.Time, error) {
	if math.IsNaN(serial) || serial <= minOADate || serial >= maxOADate {
		return time.Time{}, fmt.Errorf("day serial %v out of range", serial)
	}
	if loc == nil {
		loc = time.UTC
	}
	half := 0.5
	if serial < 0 {
		half = -0.5
	}
	ms := int64(serial*float64(msPerDay) + half)
	if ms < 0 {
		ms -= (ms % msPerDay) * 2
	}
	days, rem := ms/msPerDay, ms%msPerDay
	t := OAEpoch.AddDate(0, 0, int(days)).Add(time.Duration(rem) * time.Millisecond)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), nil
}

// TimeOfDay returns the time elapsed since midnight of t's wall clock.
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// DurationToOADate returns the day serial of day zero plus d.
func DurationToOADate(d time.Duration) float64 {
	return ToOADate(OAEpoch.Add(d))
}

package schedule

import (
	"time"
)

// BusyInterval represents one occupied period, typically a calendar event.
// Two intervals with identical bounds are interchangeable; there is no
// identity beyond Start and End.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive duration.
func (b BusyInterval) Valid() bool {
	return b.End.After(b.Start)
}

// Duration returns the length of the interval.
func (b BusyInterval) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// FreeSlot is a contiguous free gap within a working window.
// Minutes is always derived from the bounds.
type FreeSlot struct {
	Start   time.Time
	End     time.Time
	Minutes int
}

// OptimalSlot is the slot chosen for a requested action. End is always
// Start plus the requested duration, not the full free gap.
type OptimalSlot struct {
	Start   time.Time
	End     time.Time
	Minutes int
}

// Conflict is a detected overlap between two busy intervals.
type Conflict struct {
	A      BusyInterval
	B      BusyInterval
	Reason string
}

// EventTime is a raw start/end pair as delivered by an upstream calendar
// source. Timestamps are RFC 3339 strings; either may be empty or malformed.
type EventTime struct {
	Start string
	End   string
}

// ParseBusyIntervals converts raw event times into busy intervals.
// Records with missing or unparseable timestamps, and records whose end
// does not come after their start, are dropped rather than reported: a
// malformed upstream event degrades to one fewer busy interval.
func ParseBusyIntervals(events []EventTime) []BusyInterval {
	var intervals []BusyInterval
	for _, e := range events {
		start, err := time.Parse(time.RFC3339, e.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, e.End)
		if err != nil {
			continue
		}
		iv := BusyInterval{Start: start, End: end}
		if !iv.Valid() {
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// minutesBetween returns the whole minutes from a to b, truncated.
func minutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// formatHM formats a time as HH:MM on the local clock of t.
func formatHM(t time.Time) string {
	return t.Format("15:04")
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

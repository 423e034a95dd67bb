package schedule

import (
	"fmt"
	"time"
)

// Defaults for the scheduling configuration.
const (
	DefaultWorkStartHour    = 8
	DefaultWorkEndHour      = 18
	DefaultMinSlotMinutes   = 10
	DefaultLookaheadDays    = 3
	DefaultMaxLookaheadDays = 60
)

// Config holds the tunables of the slot-finding engine.
type Config struct {
	// WorkStartHour and WorkEndHour bound the daily schedulable window,
	// as hours of the local day (0..24).
	WorkStartHour int
	WorkEndHour   int

	// MinSlotMinutes is the minimum size for a free slot to be useful.
	MinSlotMinutes int

	// LookaheadDays is how many consecutive days the suggestion
	// generator examines.
	LookaheadDays int

	// MaxLookaheadDays caps the day-rollover search. When no slot is
	// found within this many days the search fails closed and returns
	// no slot.
	MaxLookaheadDays int
}

// DefaultConfig returns the configuration matching an 8:00-18:00 working
// day, 10-minute minimum slots and a 3-day suggestion lookahead.
func DefaultConfig() Config {
	return Config{
		WorkStartHour:    DefaultWorkStartHour,
		WorkEndHour:      DefaultWorkEndHour,
		MinSlotMinutes:   DefaultMinSlotMinutes,
		LookaheadDays:    DefaultLookaheadDays,
		MaxLookaheadDays: DefaultMaxLookaheadDays,
	}
}

// Validate checks the configuration. A window where the start hour does not
// precede the end hour is a programmer error, not a runtime condition, so
// computation never starts from an invalid Config.
func (c Config) Validate() error {
	if c.WorkStartHour < 0 || c.WorkStartHour >= 24 {
		return fmt.Errorf("work start hour must be in [0, 24), got %d", c.WorkStartHour)
	}
	if c.WorkEndHour < 1 || c.WorkEndHour > 24 {
		return fmt.Errorf("work end hour must be in (0, 24], got %d", c.WorkEndHour)
	}
	if c.WorkStartHour >= c.WorkEndHour {
		return fmt.Errorf("work start hour %d must be before end hour %d", c.WorkStartHour, c.WorkEndHour)
	}
	if c.MinSlotMinutes < 0 {
		return fmt.Errorf("minimum slot minutes must not be negative, got %d", c.MinSlotMinutes)
	}
	if c.LookaheadDays < 1 {
		return fmt.Errorf("lookahead days must be at least 1, got %d", c.LookaheadDays)
	}
	if c.MaxLookaheadDays < 1 {
		return fmt.Errorf("max lookahead days must be at least 1, got %d", c.MaxLookaheadDays)
	}
	return nil
}

// Window is the schedulable bounds for one calendar day.
type Window struct {
	// DayStart is midnight of the requested day.
	DayStart time.Time
	// Start and End bound the working hours within the day.
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow derives the working window for the day containing date, using
// local-clock arithmetic in date's location. It always returns a valid
// window for any input date given a validated Config.
func (c Config) DayWindow(date time.Time) Window {
	day := startOfDay(date)
	return Window{
		DayStart: day,
		Start:    atHour(day, c.WorkStartHour),
		End:      atHour(day, c.WorkEndHour),
	}
}

// startOfDay normalizes t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atHour sets the local clock of day to the given whole hour. Hour 24 maps
// to midnight of the following day.
func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

package calendar

import (
	"fmt"
	"time"

	"github.com/fixetime/fixetime/internal/schedule"
)

// BusyIntervalsForDay fetches one day's events and converts them into busy
// intervals for the scheduling engine. All-day events are excluded since
// they block no specific hours, and events without usable start/end times
// are dropped.
func (c *Client) BusyIntervalsForDay(calendarID string, day time.Time) ([]schedule.BusyInterval, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := c.ListEvents(calendarID, dayStart, dayEnd, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy intervals: %w", err)
	}

	var intervals []schedule.BusyInterval
	for _, e := range events {
		if e.AllDay || e.Status == "cancelled" {
			continue
		}
		iv := schedule.BusyInterval{Start: e.Start, End: e.End}
		if !iv.Valid() {
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// IntervalSource adapts the client to the engine's per-day busy interval
// source, so slot searches fetch each day's events lazily as the rollover
// walks forward.
func (c *Client) IntervalSource(calendarID string) schedule.IntervalSource {
	return func(date time.Time) ([]schedule.BusyInterval, error) {
		return c.BusyIntervalsForDay(calendarID, date)
	}
}

// DaySchedule is the computed scheduling view of one working day.
type DaySchedule struct {
	Window      schedule.Window
	Busy        []schedule.BusyInterval
	FreeSlots   []schedule.FreeSlot
	Conflicts   []schedule.Conflict
	BusyMinutes int
	Load        schedule.Load
}

// DaySchedule fetches one day's events and runs the full engine pass over
// them: free slots, conflicts between adjacent events, and the workload
// classification.
func (c *Client) DaySchedule(cfg schedule.Config, calendarID string, day time.Time) (*DaySchedule, error) {
	busy, err := c.BusyIntervalsForDay(calendarID, day)
	if err != nil {
		return nil, err
	}

	w := cfg.DayWindow(day)
	schedule.SortIntervals(busy)

	minutes := schedule.TotalBusyMinutes(busy, w)
	return &DaySchedule{
		Window:      w,
		Busy:        busy,
		FreeSlots:   cfg.FreeSlots(busy, w),
		Conflicts:   schedule.DetectConflicts(busy),
		BusyMinutes: minutes,
		Load:        schedule.ClassifyLoad(minutes),
	}, nil
}

// BlockSlot creates a focus-time event covering the given slot. The event
// is sized exactly to the slot, never to the surrounding free gap.
func (c *Client) BlockSlot(calendarID string, slot schedule.OptimalSlot, summary, description string) (*EventSummary, error) {
	if summary == "" {
		summary = "Focus time"
	}
	return c.CreateEvent(calendarID, EventInput{
		Summary:     summary,
		Description: description,
		Start:       slot.Start,
		End:         slot.End,
		EventType:   "focusTime",
	})
}

// SlotIsFree re-checks a time range against the calendar's free/busy data.
// Slot computation runs on a snapshot, so a caller about to book a slot can
// use this to narrow the window for a concurrent booking landing in the
// same range.
func (c *Client) SlotIsFree(calendarID string, start, end time.Time) (bool, error) {
	infos, err := c.QueryFreeBusy(start, end, []string{calendarID})
	if err != nil {
		return false, err
	}
	for _, info := range infos {
		if len(info.Errors) > 0 {
			return false, fmt.Errorf("freebusy lookup failed for %s: %v", info.Calendar, info.Errors)
		}
		for _, b := range info.Busy {
			if b.Start.Before(end) && b.End.After(start) {
				return false, nil
			}
		}
	}
	return true, nil
}

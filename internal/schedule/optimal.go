package schedule

import (
	"time"
)

// IntervalSource supplies the busy intervals relevant to one calendar day.
// The slot search calls it once per examined day, so a source backed by a
// remote calendar can fetch lazily. Returning an error aborts the search.
type IntervalSource func(date time.Time) ([]BusyInterval, error)

// StaticIntervals adapts an in-memory interval set to an IntervalSource.
// The same set is returned for every day; FreeSlots clips it per window.
func StaticIntervals(intervals []BusyInterval) IntervalSource {
	return func(time.Time) ([]BusyInterval, error) {
		return intervals, nil
	}
}

// FindOptimalSlot selects the earliest usable slot of at least minMinutes
// on or after date, never starting before now. The search begins on date
// and walks forward one calendar day at a time: a day is skipped when its
// working window is already exhausted relative to now, or when it holds no
// usable gap. Days after the first are evaluated as if now were the start
// of their window, since they are strictly in the future.
//
// The walk is bounded by c.MaxLookaheadDays; when the bound is reached
// without a usable slot the search fails closed and returns nil. A nil
// result with a nil error means no availability, which callers must treat
// as an ordinary outcome.
//
// The returned slot is sized to exactly minMinutes even when the free gap
// is larger; turning it into a calendar entry is the caller's job.
func (c Config) FindOptimalSlot(source IntervalSource, date time.Time, minMinutes int, now time.Time) (*OptimalSlot, error) {
	day := startOfDay(date)
	for i := 0; i < c.MaxLookaheadDays; i++ {
		w := c.DayWindow(day)

		lowerBound := maxTime(w.Start, now)
		if !lowerBound.Before(w.End) {
			// This day's working hours are exhausted; roll over and
			// re-evaluate tomorrow from the top of its window.
			day = nextDay(day)
			now = c.DayWindow(day).Start
			continue
		}

		busy, err := source(day)
		if err != nil {
			return nil, err
		}

		if slot := c.optimalSlotInDay(busy, w, lowerBound, minMinutes); slot != nil {
			return slot, nil
		}

		day = nextDay(day)
		now = c.DayWindow(day).Start
	}
	return nil, nil
}

// optimalSlotInDay picks the first chronological slot of the day that still
// offers minMinutes after clipping to the lower bound, or nil.
func (c Config) optimalSlotInDay(busy []BusyInterval, w Window, lowerBound time.Time, minMinutes int) *OptimalSlot {
	slots := c.FreeSlots(busy, w)
	if len(slots) == 0 {
		// No computed gaps. Re-derive the remaining window from the same
		// merged busy set so this path cannot drift from FreeSlots: when
		// the merge left the whole window covered this yields nothing,
		// and when there were no events at all it yields the full window.
		remaining := Window{DayStart: w.DayStart, Start: lowerBound, End: w.End}
		slots = c.FreeSlots(busy, remaining)
	}

	for _, s := range slots {
		start := maxTime(s.Start, lowerBound)
		if minutesBetween(start, s.End) < minMinutes {
			continue
		}
		return &OptimalSlot{
			Start:   start,
			End:     start.Add(time.Duration(minMinutes) * time.Minute),
			Minutes: minMinutes,
		}
	}
	return nil
}

// SuggestedSlots produces up to daysAhead candidate slots, one per day
// starting at baseDate. Only the first day is constrained by now; later
// days search from the top of their window. Days without a usable slot are
// skipped silently, so the result may hold fewer than daysAhead entries.
func (c Config) SuggestedSlots(source IntervalSource, baseDate time.Time, minMinutes int, now time.Time, daysAhead int) ([]OptimalSlot, error) {
	var suggestions []OptimalSlot
	day := startOfDay(baseDate)
	for i := 0; i < daysAhead; i++ {
		date := day.AddDate(0, 0, i)

		dayNow := now
		if i > 0 {
			dayNow = c.DayWindow(date).Start
		}

		w := c.DayWindow(date)
		lowerBound := maxTime(w.Start, dayNow)
		if !lowerBound.Before(w.End) {
			continue
		}

		busy, err := source(date)
		if err != nil {
			return nil, err
		}
		if slot := c.optimalSlotInDay(busy, w, lowerBound, minMinutes); slot != nil {
			suggestions = append(suggestions, *slot)
		}
	}
	return suggestions, nil
}

func nextDay(day time.Time) time.Time {
	return startOfDay(day.AddDate(0, 0, 1))
}

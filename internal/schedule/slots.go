package schedule

import (
	"time"
)

// FreeSlots computes the free gaps of a working window left open by the
// given busy intervals. Busy intervals are clipped to the window, sorted,
// and merged into non-overlapping spans; the complement of those spans
// within [w.Start, w.End] becomes the candidate slots. Gaps shorter than
// c.MinSlotMinutes are discarded as not useful.
//
// The computation is deterministic: identical inputs produce identical
// output, with no dependence on the wall clock.
func (c Config) FreeSlots(busy []BusyInterval, w Window) []FreeSlot {
	merged := mergeClipped(busy, w)

	var slots []FreeSlot
	cursor := w.Start
	for _, b := range merged {
		if b.Start.After(cursor) {
			slots = appendSlot(slots, cursor, b.Start, c.MinSlotMinutes)
		}
		cursor = maxTime(cursor, b.End)
	}
	if cursor.Before(w.End) {
		slots = appendSlot(slots, cursor, w.End, c.MinSlotMinutes)
	}
	return slots
}

// mergeClipped clips busy intervals to the window, drops everything with
// non-positive clipped duration, sorts by start, and merges overlapping or
// touching spans into a minimal ordered set.
func mergeClipped(busy []BusyInterval, w Window) []BusyInterval {
	clipped := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		cb := BusyInterval{
			Start: maxTime(b.Start, w.Start),
			End:   minTime(b.End, w.End),
		}
		if cb.Valid() {
			clipped = append(clipped, cb)
		}
	}
	SortIntervals(clipped)

	var merged []BusyInterval
	for _, b := range clipped {
		if len(merged) == 0 {
			merged = append(merged, b)
			continue
		}
		last := &merged[len(merged)-1]
		if !b.Start.After(last.End) {
			last.End = maxTime(last.End, b.End)
		} else {
			merged = append(merged, b)
		}
	}
	return merged
}

func appendSlot(slots []FreeSlot, start, end time.Time, minMinutes int) []FreeSlot {
	minutes := minutesBetween(start, end)
	if minutes < minMinutes {
		return slots
	}
	return append(slots, FreeSlot{Start: start, End: end, Minutes: minutes})
}

// TotalBusyMinutes sums the minutes of busy time that fall within the
// window. Overlapping intervals are merged first so double-booked time is
// not counted twice.
func TotalBusyMinutes(busy []BusyInterval, w Window) int {
	total := 0
	for _, b := range mergeClipped(busy, w) {
		total += minutesBetween(b.Start, b.End)
	}
	return total
}

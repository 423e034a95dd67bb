package schedule

import (
	"fmt"
	"sort"
)

// SortIntervals orders intervals ascending by start time, then by end time.
// Conflict detection requires its input to be pre-sorted; sorting is the
// caller's responsibility and this helper makes the contract explicit.
func SortIntervals(intervals []BusyInterval) {
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start.Equal(intervals[j].Start) {
			return intervals[i].End.Before(intervals[j].End)
		}
		return intervals[i].Start.Before(intervals[j].Start)
	})
}

// DetectConflicts scans chronologically adjacent pairs of the pre-sorted
// intervals and reports a conflict wherever an interval ends after its
// successor starts. Intervals must already be sorted ascending by start;
// the detector does not sort.
//
// Only adjacent pairs are compared. A short interval fully nested inside a
// long one that is not its immediate neighbor in start order is not
// reported. The presentation layer only ever shows a handful of conflicts,
// so this mirrors the behavior users see; DetectAllConflicts provides the
// complete sweep for callers that need every overlapping pair.
func DetectConflicts(sorted []BusyInterval) []Conflict {
	var conflicts []Conflict
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		if a.End.After(b.Start) {
			conflicts = append(conflicts, newConflict(a, b))
		}
	}
	return conflicts
}

// DetectAllConflicts sweeps the pre-sorted intervals tracking the interval
// with the maximum end seen so far, so an interval nested inside an earlier,
// longer one is caught even when the two are not adjacent in start order.
// Each overlapping interval is reported once, against the latest-ending
// interval that precedes it.
func DetectAllConflicts(sorted []BusyInterval) []Conflict {
	var conflicts []Conflict
	if len(sorted) == 0 {
		return conflicts
	}
	running := sorted[0]
	for _, cur := range sorted[1:] {
		if running.End.After(cur.Start) {
			conflicts = append(conflicts, newConflict(running, cur))
		}
		if cur.End.After(running.End) {
			running = cur
		}
	}
	return conflicts
}

func newConflict(a, b BusyInterval) Conflict {
	return Conflict{
		A: a,
		B: b,
		Reason: fmt.Sprintf("%s–%s overlaps with %s–%s",
			formatHM(a.Start), formatHM(a.End),
			formatHM(b.Start), formatHM(b.End)),
	}
}

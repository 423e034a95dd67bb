package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDay is an arbitrary weekday used throughout the engine tests.
var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func busy(startHour, startMin, endHour, endMin int) BusyInterval {
	return BusyInterval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestFreeSlots_EmptyCalendar(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	slots := cfg.FreeSlots(nil, w)

	require.Len(t, slots, 1)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(18, 0), slots[0].End)
	assert.Equal(t, 600, slots[0].Minutes)
}

func TestFreeSlots_SingleEvent(t *testing.T) {
	// Scenario: one event 10:00-11:00 inside an 8:00-18:00 window.
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	slots := cfg.FreeSlots([]BusyInterval{busy(10, 0, 11, 0)}, w)

	require.Len(t, slots, 2)
	assert.Equal(t, FreeSlot{Start: at(8, 0), End: at(10, 0), Minutes: 120}, slots[0])
	assert.Equal(t, FreeSlot{Start: at(11, 0), End: at(18, 0), Minutes: 420}, slots[1])
}

func TestFreeSlots_FullyBookedDay(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	slots := cfg.FreeSlots([]BusyInterval{busy(8, 0, 18, 0)}, w)

	assert.Empty(t, slots)
}

func TestFreeSlots_MergesOverlappingAndTouching(t *testing.T) {
	tests := []struct {
		name     string
		busy     []BusyInterval
		expected []FreeSlot
	}{
		{
			name: "overlapping events form one busy span",
			busy: []BusyInterval{busy(9, 0, 10, 30), busy(10, 0, 11, 0)},
			expected: []FreeSlot{
				{Start: at(8, 0), End: at(9, 0), Minutes: 60},
				{Start: at(11, 0), End: at(18, 0), Minutes: 420},
			},
		},
		{
			name: "back to back events leave no gap",
			busy: []BusyInterval{busy(9, 0, 10, 0), busy(10, 0, 11, 0)},
			expected: []FreeSlot{
				{Start: at(8, 0), End: at(9, 0), Minutes: 60},
				{Start: at(11, 0), End: at(18, 0), Minutes: 420},
			},
		},
		{
			name: "nested event is absorbed",
			busy: []BusyInterval{busy(9, 0, 12, 0), busy(10, 0, 11, 0)},
			expected: []FreeSlot{
				{Start: at(8, 0), End: at(9, 0), Minutes: 60},
				{Start: at(12, 0), End: at(18, 0), Minutes: 360},
			},
		},
		{
			name: "unsorted input is sorted before merging",
			busy: []BusyInterval{busy(14, 0, 15, 0), busy(9, 0, 10, 0)},
			expected: []FreeSlot{
				{Start: at(8, 0), End: at(9, 0), Minutes: 60},
				{Start: at(10, 0), End: at(14, 0), Minutes: 240},
				{Start: at(15, 0), End: at(18, 0), Minutes: 180},
			},
		},
	}

	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.FreeSlots(tt.busy, w))
		})
	}
}

func TestFreeSlots_ClipsToWindow(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	// An event starting before the window and one extending past its end.
	slots := cfg.FreeSlots([]BusyInterval{
		{Start: at(6, 0), End: at(9, 0)},
		{Start: at(17, 0), End: at(20, 0)},
	}, w)

	require.Len(t, slots, 1)
	assert.Equal(t, FreeSlot{Start: at(9, 0), End: at(17, 0), Minutes: 480}, slots[0])
}

func TestFreeSlots_DropsIntervalsOutsideWindow(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	slots := cfg.FreeSlots([]BusyInterval{
		{Start: at(5, 0), End: at(7, 0)},
		{Start: at(19, 0), End: at(21, 0)},
	}, w)

	require.Len(t, slots, 1)
	assert.Equal(t, 600, slots[0].Minutes)
}

func TestFreeSlots_MinimumThreshold(t *testing.T) {
	// Gaps below ten minutes are not useful and must never appear.
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	slots := cfg.FreeSlots([]BusyInterval{
		busy(8, 0, 12, 0),
		busy(12, 5, 18, 0), // 5 minute gap
	}, w)

	assert.Empty(t, slots)

	slots = cfg.FreeSlots([]BusyInterval{
		busy(8, 0, 12, 0),
		busy(12, 10, 18, 0), // exactly 10 minutes survives
	}, w)
	require.Len(t, slots, 1)
	assert.Equal(t, 10, slots[0].Minutes)

	for _, s := range slots {
		assert.GreaterOrEqual(t, s.Minutes, cfg.MinSlotMinutes)
	}
}

func TestFreeSlots_ComplementCoversWindow(t *testing.T) {
	// Free slots plus merged busy spans must tile the window exactly,
	// with no gaps and no overlaps.
	cfg := DefaultConfig()
	cfg.MinSlotMinutes = 0 // disable the threshold so the tiling is exact
	w := cfg.DayWindow(testDay)

	intervals := []BusyInterval{
		busy(9, 0, 10, 0),
		busy(9, 30, 11, 0),
		busy(13, 0, 14, 0),
		busy(16, 45, 17, 15),
	}

	slots := cfg.FreeSlots(intervals, w)
	merged := mergeClipped(intervals, w)

	type span struct {
		start, end time.Time
	}
	var spans []span
	for _, b := range merged {
		spans = append(spans, span{b.Start, b.End})
	}
	for _, s := range slots {
		spans = append(spans, span{s.Start, s.End})
	}
	// Sort spans by start and verify they tile [w.Start, w.End].
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[j].start.Before(spans[i].start) {
				spans[i], spans[j] = spans[j], spans[i]
			}
		}
	}
	require.NotEmpty(t, spans)
	assert.Equal(t, w.Start, spans[0].start)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].end, spans[i].start, "span %d must start where span %d ends", i, i-1)
	}
	assert.Equal(t, w.End, spans[len(spans)-1].end)
}

func TestFreeSlots_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)
	intervals := []BusyInterval{busy(11, 0, 12, 0), busy(9, 0, 10, 0)}

	first := cfg.FreeSlots(intervals, w)
	second := cfg.FreeSlots(intervals, w)

	assert.Equal(t, first, second)
}

func TestTotalBusyMinutes(t *testing.T) {
	cfg := DefaultConfig()
	w := cfg.DayWindow(testDay)

	tests := []struct {
		name     string
		busy     []BusyInterval
		expected int
	}{
		{name: "no events", busy: nil, expected: 0},
		{name: "single event", busy: []BusyInterval{busy(10, 0, 11, 0)}, expected: 60},
		{
			name:     "overlap counted once",
			busy:     []BusyInterval{busy(9, 0, 10, 30), busy(10, 0, 11, 0)},
			expected: 120,
		},
		{
			name:     "clipped to window",
			busy:     []BusyInterval{{Start: at(7, 0), End: at(9, 0)}},
			expected: 60,
		},
		{
			name:     "outside window ignored",
			busy:     []BusyInterval{{Start: at(19, 0), End: at(20, 0)}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TotalBusyMinutes(tt.busy, w))
		})
	}
}

package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOptimalSlot_EmptyDay(t *testing.T) {
	cfg := DefaultConfig()
	now := at(7, 0) // before the window opens

	slot, err := cfg.FindOptimalSlot(StaticIntervals(nil), testDay, 30, now)

	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at(8, 0), slot.Start)
	assert.Equal(t, at(8, 30), slot.End)
	assert.Equal(t, 30, slot.Minutes)
}

func TestFindOptimalSlot_PicksEarliestUsableGap(t *testing.T) {
	cfg := DefaultConfig()
	busyDay := []BusyInterval{busy(10, 0, 11, 0)}

	slot, err := cfg.FindOptimalSlot(StaticIntervals(busyDay), testDay, 30, at(7, 0))

	require.NoError(t, err)
	require.NotNil(t, slot)
	// The first gap is 8:00-10:00; the slot takes only the requested
	// 30 minutes of it.
	assert.Equal(t, at(8, 0), slot.Start)
	assert.Equal(t, at(8, 30), slot.End)
}

func TestFindOptimalSlot_NowClipsFirstGap(t *testing.T) {
	cfg := DefaultConfig()
	busyDay := []BusyInterval{busy(10, 0, 11, 0)}

	slot, err := cfg.FindOptimalSlot(StaticIntervals(busyDay), testDay, 30, at(9, 15))

	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at(9, 15), slot.Start)
	assert.Equal(t, at(9, 45), slot.End)
}

func TestFindOptimalSlot_SkipsGapTooShortAfterNow(t *testing.T) {
	cfg := DefaultConfig()
	busyDay := []BusyInterval{busy(10, 0, 11, 0)}

	// 9:45 leaves only 15 minutes before the meeting; the slot lands
	// after it instead.
	slot, err := cfg.FindOptimalSlot(StaticIntervals(busyDay), testDay, 30, at(9, 45))

	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at(11, 0), slot.Start)
	assert.Equal(t, at(11, 30), slot.End)
}

func TestFindOptimalSlot_RollsOverWhenDayFull(t *testing.T) {
	cfg := DefaultConfig()
	today := testDay
	tomorrow := testDay.AddDate(0, 0, 1)

	source := func(date time.Time) ([]BusyInterval, error) {
		if date.Equal(today) {
			return []BusyInterval{{Start: at(8, 0), End: at(18, 0)}}, nil
		}
		return nil, nil
	}

	slot, err := cfg.FindOptimalSlot(source, today, 30, at(7, 0))

	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, tomorrow.Add(8*time.Hour), slot.Start)
	assert.Equal(t, tomorrow.Add(8*time.Hour+30*time.Minute), slot.End)
}

func TestFindOptimalSlot_RollsOverAfterHours(t *testing.T) {
	// At 19:00 the working window is already behind us; the slot must
	// land at the start of the next day's window.
	cfg := DefaultConfig()
	tomorrow := testDay.AddDate(0, 0, 1)

	slot, err := cfg.FindOptimalSlot(StaticIntervals(nil), testDay, 30, at(19, 0))

	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, tomorrow.Add(8*time.Hour), slot.Start)
}

func TestFindOptimalSlot_FailsClosedAtLookaheadCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLookaheadDays = 5

	// Every day is fully booked; the search must terminate with no slot
	// rather than walk forever.
	fullDay := func(date time.Time) ([]BusyInterval, error) {
		w := cfg.DayWindow(date)
		return []BusyInterval{{Start: w.Start, End: w.End}}, nil
	}

	slot, err := cfg.FindOptimalSlot(fullDay, testDay, 30, at(7, 0))

	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestFindOptimalSlot_SourceError(t *testing.T) {
	cfg := DefaultConfig()
	boom := errors.New("calendar unavailable")
	source := func(time.Time) ([]BusyInterval, error) { return nil, boom }

	slot, err := cfg.FindOptimalSlot(source, testDay, 30, at(7, 0))

	assert.Nil(t, slot)
	assert.ErrorIs(t, err, boom)
}

func TestFindOptimalSlot_RequestLargerThanAnyGap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLookaheadDays = 3
	// 9 hours busy each day leaves a 60 minute gap, too small for 90.
	source := func(date time.Time) ([]BusyInterval, error) {
		w := cfg.DayWindow(date)
		return []BusyInterval{{Start: w.Start, End: w.End.Add(-time.Hour)}}, nil
	}

	slot, err := cfg.FindOptimalSlot(source, testDay, 90, at(7, 0))

	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestSuggestedSlots_OnePerDay(t *testing.T) {
	cfg := DefaultConfig()

	slots, err := cfg.SuggestedSlots(StaticIntervals(nil), testDay, 30, at(7, 0), 3)

	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i, s := range slots {
		expected := testDay.AddDate(0, 0, i).Add(8 * time.Hour)
		assert.Equal(t, expected, s.Start, "day %d", i)
		assert.Equal(t, 30, s.Minutes)
	}
}

func TestSuggestedSlots_NowOnlyConstrainsFirstDay(t *testing.T) {
	cfg := DefaultConfig()

	slots, err := cfg.SuggestedSlots(StaticIntervals(nil), testDay, 30, at(14, 30), 2)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, at(14, 30), slots[0].Start)
	assert.Equal(t, testDay.AddDate(0, 0, 1).Add(8*time.Hour), slots[1].Start)
}

func TestSuggestedSlots_SkipsFullDays(t *testing.T) {
	cfg := DefaultConfig()
	tomorrow := testDay.AddDate(0, 0, 1)

	source := func(date time.Time) ([]BusyInterval, error) {
		if date.Equal(tomorrow) {
			w := cfg.DayWindow(date)
			return []BusyInterval{{Start: w.Start, End: w.End}}, nil
		}
		return nil, nil
	}

	slots, err := cfg.SuggestedSlots(source, testDay, 30, at(7, 0), 3)

	require.NoError(t, err)
	// The full middle day is skipped without substitution.
	require.Len(t, slots, 2)
	assert.Equal(t, testDay.Add(8*time.Hour), slots[0].Start)
	assert.Equal(t, testDay.AddDate(0, 0, 2).Add(8*time.Hour), slots[1].Start)
}

func TestSuggestedSlots_AfterHoursFirstDaySkipped(t *testing.T) {
	cfg := DefaultConfig()

	slots, err := cfg.SuggestedSlots(StaticIntervals(nil), testDay, 30, at(18, 30), 2)

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, testDay.AddDate(0, 0, 1).Add(8*time.Hour), slots[0].Start)
}

func TestSuggestedSlots_SourceError(t *testing.T) {
	cfg := DefaultConfig()
	boom := errors.New("calendar unavailable")
	source := func(time.Time) ([]BusyInterval, error) { return nil, boom }

	slots, err := cfg.SuggestedSlots(source, testDay, 30, at(7, 0), 3)

	assert.Nil(t, slots)
	assert.ErrorIs(t, err, boom)
}

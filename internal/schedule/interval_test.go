package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusyIntervals(t *testing.T) {
	events := []EventTime{
		{Start: "2026-03-10T09:00:00Z", End: "2026-03-10T10:00:00Z"},
		{Start: "not a timestamp", End: "2026-03-10T11:00:00Z"},
		{Start: "2026-03-10T12:00:00Z", End: "garbage"},
		{Start: "", End: ""},
		{Start: "2026-03-10T15:00:00Z", End: "2026-03-10T14:00:00Z"}, // inverted
		{Start: "2026-03-10T16:00:00Z", End: "2026-03-10T16:00:00Z"}, // zero length
		{Start: "2026-03-10T16:00:00Z", End: "2026-03-10T17:30:00Z"},
	}

	intervals := ParseBusyIntervals(events)

	require.Len(t, intervals, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), intervals[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC), intervals[1].End)
}

func TestBusyIntervalValid(t *testing.T) {
	assert.True(t, busy(9, 0, 10, 0).Valid())
	assert.False(t, busy(10, 0, 9, 0).Valid())
	assert.False(t, busy(9, 0, 9, 0).Valid())
	assert.False(t, BusyInterval{}.Valid())
}

func TestBusyIntervalDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, busy(9, 0, 10, 30).Duration())
}

func TestMinutesBetween(t *testing.T) {
	// Truncates toward zero; partial minutes never count.
	assert.Equal(t, 29, minutesBetween(at(9, 0), at(9, 29).Add(59*time.Second)))
	assert.Equal(t, 0, minutesBetween(at(9, 0), at(9, 0)))
}

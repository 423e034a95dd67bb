package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "negative start hour",
			mutate:  func(c *Config) { c.WorkStartHour = -1 },
			wantErr: "work start hour",
		},
		{
			name:    "end hour past midnight",
			mutate:  func(c *Config) { c.WorkEndHour = 25 },
			wantErr: "work end hour",
		},
		{
			name:    "inverted window",
			mutate:  func(c *Config) { c.WorkStartHour = 18; c.WorkEndHour = 8 },
			wantErr: "must be before end hour",
		},
		{
			name:    "equal start and end",
			mutate:  func(c *Config) { c.WorkStartHour = 9; c.WorkEndHour = 9 },
			wantErr: "must be before end hour",
		},
		{
			name:    "negative minimum slot",
			mutate:  func(c *Config) { c.MinSlotMinutes = -5 },
			wantErr: "minimum slot minutes",
		},
		{
			name:    "zero lookahead",
			mutate:  func(c *Config) { c.LookaheadDays = 0 },
			wantErr: "lookahead days",
		},
		{
			name:    "zero max lookahead",
			mutate:  func(c *Config) { c.MaxLookaheadDays = 0 },
			wantErr: "max lookahead days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDayWindow(t *testing.T) {
	cfg := DefaultConfig()

	// Any time inside the day yields the same window.
	for _, input := range []time.Time{
		testDay,
		at(0, 1),
		at(12, 37),
		at(23, 59),
	} {
		w := cfg.DayWindow(input)
		assert.Equal(t, testDay, w.DayStart)
		assert.Equal(t, at(8, 0), w.Start)
		assert.Equal(t, at(18, 0), w.End)
	}
}

func TestDayWindow_CustomHours(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkStartHour = 6
	cfg.WorkEndHour = 24

	w := cfg.DayWindow(testDay)

	assert.Equal(t, at(6, 0), w.Start)
	// Hour 24 is midnight of the next day.
	assert.Equal(t, testDay.AddDate(0, 0, 1), w.End)
}

func TestWindowContains(t *testing.T) {
	w := DefaultConfig().DayWindow(testDay)

	assert.True(t, w.Contains(at(8, 0)), "start is inclusive")
	assert.True(t, w.Contains(at(12, 0)))
	assert.False(t, w.Contains(at(18, 0)), "end is exclusive")
	assert.False(t, w.Contains(at(7, 59)))
}

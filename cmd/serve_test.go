package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fixetime/fixetime/internal/schedule"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "muster-client",
			expected: []string{"muster-client"},
		},
		{
			name:     "multiple values",
			input:    "muster-client,other-client",
			expected: []string{"muster-client", "other-client"},
		},
		{
			name:     "values with spaces around comma",
			input:    "muster-client, other-client",
			expected: []string{"muster-client", "other-client"},
		},
		{
			name:     "values with leading/trailing spaces",
			input:    "  muster-client  ,  other-client  ",
			expected: []string{"muster-client", "other-client"},
		},
		{
			name:     "trailing comma",
			input:    "muster-client,other-client,",
			expected: []string{"muster-client", "other-client"},
		},
		{
			name:     "leading comma",
			input:    ",muster-client,other-client",
			expected: []string{"muster-client", "other-client"},
		},
		{
			name:     "multiple consecutive commas",
			input:    "muster-client,,other-client",
			expected: []string{"muster-client", "other-client"},
		},
		{
			name:     "only commas and spaces",
			input:    ",  , , ",
			expected: []string{},
		},
		{
			name:     "single value with surrounding whitespace",
			input:    "  muster-client  ",
			expected: []string{"muster-client"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommaSeparatedList(tt.input)

			// Handle nil vs empty slice comparison
			if tt.expected == nil {
				if result != nil {
					t.Errorf("parseCommaSeparatedList(%q) = %v, want nil", tt.input, result)
				}
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("parseCommaSeparatedList(%q) = %v (len %d), want %v (len %d)",
					tt.input, result, len(result), tt.expected, len(tt.expected))
				return
			}

			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("parseCommaSeparatedList(%q)[%d] = %q, want %q",
						tt.input, i, v, tt.expected[i])
				}
			}
		})
	}
}

func TestLoadRuleSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	content := `{
		"always_important": ["boss@example.com"],
		"always_ignore": ["newsletter@example.com"],
		"urgent_keywords": ["outage"]
	}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	rs, err := loadRuleSet(path)
	if err != nil {
		t.Fatalf("loadRuleSet returned error: %v", err)
	}

	if len(rs.AlwaysImportant) != 1 || rs.AlwaysImportant[0] != "boss@example.com" {
		t.Errorf("unexpected always_important: %v", rs.AlwaysImportant)
	}
	if len(rs.AlwaysIgnore) != 1 || rs.AlwaysIgnore[0] != "newsletter@example.com" {
		t.Errorf("unexpected always_ignore: %v", rs.AlwaysIgnore)
	}
	if len(rs.UrgentKeywords) != 1 || rs.UrgentKeywords[0] != "outage" {
		t.Errorf("unexpected urgent_keywords: %v", rs.UrgentKeywords)
	}
}

func TestLoadRuleSetMissingFile(t *testing.T) {
	_, err := loadRuleSet(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("expected error for missing rules file")
	}
}

func TestLoadRuleSetInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	_, err := loadRuleSet(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApplyScheduleEnvVars(t *testing.T) {
	t.Setenv("FIXETIME_WORK_START_HOUR", "9")
	t.Setenv("FIXETIME_WORK_END_HOUR", "17")
	t.Setenv("FIXETIME_MIN_SLOT_MINUTES", "not-a-number")
	t.Setenv("FIXETIME_LOOKAHEAD_DAYS", "5")

	cfg := schedule.DefaultConfig()
	applyScheduleEnvVars(&cfg)

	if cfg.WorkStartHour != 9 {
		t.Errorf("WorkStartHour = %d, want 9", cfg.WorkStartHour)
	}
	if cfg.WorkEndHour != 17 {
		t.Errorf("WorkEndHour = %d, want 17", cfg.WorkEndHour)
	}
	if cfg.MinSlotMinutes != schedule.DefaultMinSlotMinutes {
		t.Errorf("MinSlotMinutes = %d, want default %d on invalid env value",
			cfg.MinSlotMinutes, schedule.DefaultMinSlotMinutes)
	}
	if cfg.LookaheadDays != 5 {
		t.Errorf("LookaheadDays = %d, want 5", cfg.LookaheadDays)
	}
}

func TestApplyScheduleEnvVarsFlagWins(t *testing.T) {
	t.Setenv("FIXETIME_WORK_START_HOUR", "9")

	cfg := schedule.DefaultConfig()
	cfg.WorkStartHour = 7 // explicitly set, must survive
	applyScheduleEnvVars(&cfg)

	if cfg.WorkStartHour != 7 {
		t.Errorf("WorkStartHour = %d, want explicit 7 over env var", cfg.WorkStartHour)
	}
}

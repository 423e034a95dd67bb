package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/fixetime/fixetime/internal/schedule"
	"github.com/fixetime/fixetime/internal/triage"
)

func TestFollowUpInput(t *testing.T) {
	email := triage.Email{
		Sender:  "cfo@example.com",
		Subject: "Q3 report draft",
	}
	result := triage.Classification{
		EstimatedMinutes: 45,
		Summary:          "Review the draft before the board call.",
	}
	slot := schedule.OptimalSlot{
		Start:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC),
		Minutes: 45,
	}

	input := followUpInput(email, result, slot)

	if input.Title != "Q3 report draft" {
		t.Errorf("Expected subject as title, got %q", input.Title)
	}
	if !input.Due.Equal(slot.Start) {
		t.Errorf("Expected task due at slot start, got %v", input.Due)
	}
	for _, want := range []string{"cfo@example.com", "45 min", "09:00", "09:45", "Review the draft"} {
		if !strings.Contains(input.Notes, want) {
			t.Errorf("Notes missing %q:\n%s", want, input.Notes)
		}
	}
}

func TestFollowUpInput_EmptySubject(t *testing.T) {
	input := followUpInput(triage.Email{Sender: "a@example.com"}, triage.Classification{}, schedule.OptimalSlot{})

	if input.Title != "Follow up on email" {
		t.Errorf("Expected fallback title, got %q", input.Title)
	}
}

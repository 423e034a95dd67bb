package tasks

import (
	"fmt"
	"time"

	"github.com/fixetime/fixetime/internal/schedule"
	"github.com/fixetime/fixetime/internal/triage"
)

// DefaultTaskList is the well-known ID of the user's primary task list.
const DefaultTaskList = "@default"

// CreateFollowUp creates a follow-up task for a triaged email, due at the
// start of the slot the scheduler picked for it. The task notes carry the
// sender and the estimated handling time so the task is actionable without
// reopening the email.
func (c *Client) CreateFollowUp(taskListID string, email triage.Email, result triage.Classification, slot schedule.OptimalSlot) (*Task, error) {
	if taskListID == "" {
		taskListID = DefaultTaskList
	}
	return c.CreateTask(taskListID, followUpInput(email, result, slot))
}

// followUpInput builds the task for a triaged email and its planned slot.
func followUpInput(email triage.Email, result triage.Classification, slot schedule.OptimalSlot) TaskInput {
	title := email.Subject
	if title == "" {
		title = "Follow up on email"
	}

	notes := fmt.Sprintf("From: %s\nEstimated: %d min\nPlanned: %s–%s",
		email.Sender,
		result.EstimatedMinutes,
		slot.Start.Format("15:04"),
		slot.End.Format("15:04"))
	if result.Summary != "" {
		notes += "\n\n" + result.Summary
	}

	return TaskInput{
		Title: title,
		Notes: notes,
		Due:   slot.Start,
	}
}

// DueToday lists the open tasks due today in the given list.
func (c *Client) DueToday(taskListID string, now time.Time) ([]Task, error) {
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	return c.ListTasks(taskListID, false, dayStart, dayEnd)
}

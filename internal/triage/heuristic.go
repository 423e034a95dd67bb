package triage

import (
	"context"
	"strings"
)

// Keyword lists for the built-in heuristic. Matching is case-insensitive
// substring matching, subject first, then sender.
var (
	urgentSubjectWords    = []string{"urgent", "asap", "tomorrow"}
	importantSubjectWords = []string{"meeting", "appointment", "review"}
	ignoredSenderWords    = []string{"newsletter", "no-reply", "noreply", "linkedin", "notifications@"}
)

// HeuristicClassifier is the zero-dependency fallback classifier. It only
// looks at the subject and sender, so it can run when the real classifier
// is down or unconfigured. It never returns an error.
type HeuristicClassifier struct{}

// Classify implements Classifier.
func (HeuristicClassifier) Classify(_ context.Context, email Email) (Classification, error) {
	subject := strings.ToLower(email.Subject)
	sender := strings.ToLower(email.Sender)

	c := Classification{
		Decision: DecisionHandle,
		Summary:  "Classified by keyword heuristic.",
		Source:   SourceHeuristic,
	}

	switch {
	case containsAny(subject, urgentSubjectWords):
		c.Urgent = true
		c.Reason = "urgent wording in subject"
	case containsAny(subject, importantSubjectWords):
		c.Important = true
		c.Reason = "meeting-related subject"
	case containsAny(sender, ignoredSenderWords):
		c.Decision = DecisionIgnore
		c.Reason = "bulk or automated sender"
	default:
		c.Reason = "no signal, defaulting to handle"
	}

	c.EstimatedMinutes = 5
	normalize(&c)
	return c, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

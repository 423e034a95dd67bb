// Package rules implements the user-defined precedence filter that forces
// a triage outcome before any automated classification runs. Rules are an
// ordered list of matchers evaluated in a fixed priority order:
// importance-by-sender, then ignore-by-sender, then urgent-keyword. The
// first match wins.
package rules

import (
	"strings"
)

// Decision values a rule can force. They match the triage decisions so a
// forced outcome can be applied verbatim.
const (
	DecisionHandle = "handle"
	DecisionIgnore = "ignore"
)

// Recommended actions attached to forced outcomes.
const (
	ActionArchive = "archive"
	ActionReply   = "reply"
)

// Default estimated handling time in minutes for a rule-forced outcome.
// Ignored mail costs nothing; everything else gets a nominal quick-reply
// estimate since rules carry no per-message analysis.
const forcedEstimateMinutes = 5

// RuleSet holds the user's precedence rules. Sender entries are matched as
// substrings of the sender address (so a bare domain matches every address
// at that domain); keywords are matched case-insensitively against the
// subject.
type RuleSet struct {
	AlwaysImportant []string `json:"always_important"`
	AlwaysIgnore    []string `json:"always_ignore"`
	UrgentKeywords  []string `json:"urgent_keywords"`
}

// ForcedOutcome is a classification dictated by a rule, bypassing the
// automated classifier entirely.
type ForcedOutcome struct {
	Decision          string
	Urgent            bool
	Important         bool
	EstimatedMinutes  int
	RecommendedAction string
	Reason            string
}

// Apply evaluates the rule set against a message's sender and subject and
// returns the forced outcome of the highest-priority matching rule, or nil
// when no rule matches. Priority is fixed: always-important senders beat
// always-ignore senders, which beat urgent keywords.
func (r RuleSet) Apply(sender, subject string) *ForcedOutcome {
	if matchesSender(r.AlwaysImportant, sender) {
		return &ForcedOutcome{
			Decision:          DecisionHandle,
			Important:         true,
			EstimatedMinutes:  forcedEstimateMinutes,
			RecommendedAction: ActionReply,
			Reason:            "sender marked always important",
		}
	}
	if matchesSender(r.AlwaysIgnore, sender) {
		return &ForcedOutcome{
			Decision:          DecisionIgnore,
			EstimatedMinutes:  0,
			RecommendedAction: ActionArchive,
			Reason:            "sender marked always ignore",
		}
	}
	if kw, ok := matchesKeyword(r.UrgentKeywords, subject); ok {
		return &ForcedOutcome{
			Decision:          DecisionHandle,
			Urgent:            true,
			EstimatedMinutes:  forcedEstimateMinutes,
			RecommendedAction: ActionReply,
			Reason:            "urgent keyword: " + kw,
		}
	}
	return nil
}

// Empty reports whether the rule set contains no rules at all.
func (r RuleSet) Empty() bool {
	return len(r.AlwaysImportant) == 0 && len(r.AlwaysIgnore) == 0 && len(r.UrgentKeywords) == 0
}

func matchesSender(patterns []string, sender string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(sender, p) {
			return true
		}
	}
	return false
}

func matchesKeyword(keywords []string, subject string) (string, bool) {
	lower := strings.ToLower(subject)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			return k, true
		}
	}
	return "", false
}

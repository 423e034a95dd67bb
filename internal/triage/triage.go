// Package triage turns incoming email into decisions: handle it, schedule
// time for it, or ignore it. User precedence rules are consulted first;
// only unmatched mail reaches the automated classifier, and a built-in
// keyword heuristic covers classifier failures so every message always
// gets a decision.
package triage

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixetime/fixetime/internal/logging"
	"github.com/fixetime/fixetime/internal/rules"
)

// Decision is the triage outcome for one email.
type Decision string

const (
	// DecisionHandle means the email needs a direct response.
	DecisionHandle Decision = "handle"
	// DecisionSchedule means dedicated time should be blocked for it.
	DecisionSchedule Decision = "schedule"
	// DecisionIgnore means the email can be archived unread.
	DecisionIgnore Decision = "ignore"
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionHandle, DecisionSchedule, DecisionIgnore:
		return true
	}
	return false
}

// Email is the triage view of a message. It carries only what
// classification needs; the full message stays with the mail client.
type Email struct {
	ID       string
	ThreadID string
	Sender   string
	Subject  string
	Snippet  string
	Received time.Time
}

// Classification is the complete triage result for one email.
type Classification struct {
	Decision          Decision
	Urgent            bool
	Important         bool
	Summary           string
	EstimatedMinutes  int
	RecommendedAction string
	Reason            string
	// Source records which layer produced the decision: "rule",
	// "classifier" or "heuristic".
	Source string
}

// Classification sources.
const (
	SourceRule       = "rule"
	SourceClassifier = "classifier"
	SourceHeuristic  = "heuristic"
)

// Classifier is the external text-classification collaborator. An
// implementation may call out to a remote model; errors are tolerated and
// handled by falling back to the keyword heuristic.
type Classifier interface {
	Classify(ctx context.Context, email Email) (Classification, error)
}

// Service applies the triage pipeline: precedence rules, then the
// classifier, with the heuristic as the safety net.
type Service struct {
	rules      rules.RuleSet
	classifier Classifier
	heuristic  HeuristicClassifier
	logger     *slog.Logger
}

// NewService returns a triage service. classifier may be nil, in which
// case unmatched mail goes straight to the keyword heuristic.
func NewService(rs rules.RuleSet, classifier Classifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		rules:      rs,
		classifier: classifier,
		logger:     logging.WithService(logger, "triage"),
	}
}

// Triage classifies a single email. It never fails: a rule match wins,
// otherwise the classifier decides, and a classifier error degrades to the
// heuristic rather than propagating.
func (s *Service) Triage(ctx context.Context, email Email) Classification {
	logger := s.logger.With(
		slog.String("email_id", email.ID),
		logging.UserHash(email.Sender),
	)

	if forced := s.rules.Apply(email.Sender, email.Subject); forced != nil {
		logger.Debug("decision forced by rule",
			slog.String("decision", forced.Decision),
			slog.String("reason", forced.Reason))
		return fromForced(forced)
	}

	if s.classifier != nil {
		result, err := s.classifier.Classify(ctx, email)
		if err == nil {
			result.Source = SourceClassifier
			normalize(&result)
			logger.Debug("decision from classifier",
				slog.String("decision", string(result.Decision)))
			return result
		}
		logger.Warn("classifier failed, using heuristic", logging.Err(err))
	}

	result, _ := s.heuristic.Classify(ctx, email)
	logger.Debug("decision from heuristic",
		slog.String("decision", string(result.Decision)))
	return result
}

// TriageAll classifies a batch of emails in order. The slice is always the
// same length as the input; individual classifier failures degrade to the
// heuristic per message.
func (s *Service) TriageAll(ctx context.Context, emails []Email) []Classification {
	results := make([]Classification, len(emails))
	for i, e := range emails {
		results[i] = s.Triage(ctx, e)
	}
	return results
}

// fromForced converts a rule outcome into a full classification.
func fromForced(f *rules.ForcedOutcome) Classification {
	c := Classification{
		Decision:          Decision(f.Decision),
		Urgent:            f.Urgent,
		Important:         f.Important,
		Summary:           "Classified by your rules.",
		EstimatedMinutes:  f.EstimatedMinutes,
		RecommendedAction: f.RecommendedAction,
		Reason:            f.Reason,
		Source:            SourceRule,
	}
	normalize(&c)
	return c
}

// normalize enforces the invariants every classification must satisfy:
// a known decision, zero cost for ignored mail and a sane action.
func normalize(c *Classification) {
	if !c.Decision.Valid() {
		c.Decision = DecisionHandle
	}
	if c.Decision == DecisionIgnore {
		c.EstimatedMinutes = 0
		if c.RecommendedAction == "" {
			c.RecommendedAction = rules.ActionArchive
		}
		return
	}
	if c.EstimatedMinutes < 0 {
		c.EstimatedMinutes = 0
	}
	if c.RecommendedAction == "" {
		c.RecommendedAction = rules.ActionReply
	}
}

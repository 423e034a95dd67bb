package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixetime/fixetime/internal/rules"
)

type stubClassifier struct {
	result Classification
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, _ Email) (Classification, error) {
	s.calls++
	return s.result, s.err
}

func TestServiceTriage_RuleWinsOverClassifier(t *testing.T) {
	classifier := &stubClassifier{result: Classification{Decision: DecisionSchedule}}
	svc := NewService(rules.RuleSet{AlwaysIgnore: []string{"newsletter@"}}, classifier, nil)

	c := svc.Triage(context.Background(), Email{
		Sender:  "newsletter@shop.example.com",
		Subject: "deals",
	})

	assert.Equal(t, DecisionIgnore, c.Decision)
	assert.Equal(t, SourceRule, c.Source)
	assert.Equal(t, 0, c.EstimatedMinutes)
	assert.Equal(t, 0, classifier.calls, "classifier must not run when a rule matches")
}

func TestServiceTriage_ClassifierDecides(t *testing.T) {
	classifier := &stubClassifier{result: Classification{
		Decision:         DecisionSchedule,
		Important:        true,
		EstimatedMinutes: 45,
		Summary:          "quarterly report needs a work block",
	}}
	svc := NewService(rules.RuleSet{}, classifier, nil)

	c := svc.Triage(context.Background(), Email{
		Sender:  "cfo@example.com",
		Subject: "Q3 report draft",
	})

	assert.Equal(t, DecisionSchedule, c.Decision)
	assert.Equal(t, SourceClassifier, c.Source)
	assert.Equal(t, 45, c.EstimatedMinutes)
	assert.Equal(t, 1, classifier.calls)
}

func TestServiceTriage_ClassifierErrorFallsBackToHeuristic(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("model unavailable")}
	svc := NewService(rules.RuleSet{}, classifier, nil)

	c := svc.Triage(context.Background(), Email{
		Sender:  "someone@example.com",
		Subject: "urgent: contract signature",
	})

	assert.Equal(t, DecisionHandle, c.Decision)
	assert.True(t, c.Urgent)
	assert.Equal(t, SourceHeuristic, c.Source)
}

func TestServiceTriage_NilClassifierUsesHeuristic(t *testing.T) {
	svc := NewService(rules.RuleSet{}, nil, nil)

	c := svc.Triage(context.Background(), Email{
		Sender:  "no-reply@service.example.com",
		Subject: "your weekly digest",
	})

	assert.Equal(t, DecisionIgnore, c.Decision)
	assert.Equal(t, SourceHeuristic, c.Source)
}

func TestServiceTriage_NormalizesClassifierOutput(t *testing.T) {
	tests := []struct {
		name     string
		result   Classification
		expected func(t *testing.T, c Classification)
	}{
		{
			name:   "unknown decision becomes handle",
			result: Classification{Decision: Decision("maybe")},
			expected: func(t *testing.T, c Classification) {
				assert.Equal(t, DecisionHandle, c.Decision)
			},
		},
		{
			name:   "ignore zeroes the estimate",
			result: Classification{Decision: DecisionIgnore, EstimatedMinutes: 30},
			expected: func(t *testing.T, c Classification) {
				assert.Equal(t, 0, c.EstimatedMinutes)
				assert.Equal(t, rules.ActionArchive, c.RecommendedAction)
			},
		},
		{
			name:   "negative estimate clamped",
			result: Classification{Decision: DecisionHandle, EstimatedMinutes: -5},
			expected: func(t *testing.T, c Classification) {
				assert.Equal(t, 0, c.EstimatedMinutes)
				assert.Equal(t, rules.ActionReply, c.RecommendedAction)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(rules.RuleSet{}, &stubClassifier{result: tt.result}, nil)
			c := svc.Triage(context.Background(), Email{Sender: "a@example.com"})
			tt.expected(t, c)
		})
	}
}

func TestTriageAll(t *testing.T) {
	svc := NewService(rules.RuleSet{AlwaysIgnore: []string{"spam@"}}, nil, nil)

	results := svc.TriageAll(context.Background(), []Email{
		{Sender: "spam@example.com", Subject: "win big"},
		{Sender: "peer@example.com", Subject: "meeting notes"},
	})

	assert.Len(t, results, 2)
	assert.Equal(t, DecisionIgnore, results[0].Decision)
	assert.Equal(t, DecisionHandle, results[1].Decision)
	assert.True(t, results[1].Important)
}

func TestHeuristicClassifier(t *testing.T) {
	tests := []struct {
		name     string
		email    Email
		decision Decision
		urgent   bool
		imp      bool
	}{
		{
			name:     "urgent subject",
			email:    Email{Sender: "a@example.com", Subject: "need this ASAP"},
			decision: DecisionHandle,
			urgent:   true,
		},
		{
			name:     "meeting subject",
			email:    Email{Sender: "a@example.com", Subject: "Meeting reschedule"},
			decision: DecisionHandle,
			imp:      true,
		},
		{
			name:     "bulk sender",
			email:    Email{Sender: "newsletter@news.example.com", Subject: "issue 42"},
			decision: DecisionIgnore,
		},
		{
			name:     "urgent subject beats bulk sender",
			email:    Email{Sender: "newsletter@news.example.com", Subject: "urgent notice"},
			decision: DecisionHandle,
			urgent:   true,
		},
		{
			name:     "no signal",
			email:    Email{Sender: "a@example.com", Subject: "hello"},
			decision: DecisionHandle,
		},
	}

	var h HeuristicClassifier
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := h.Classify(context.Background(), tt.email)
			assert.NoError(t, err)
			assert.Equal(t, tt.decision, c.Decision)
			assert.Equal(t, tt.urgent, c.Urgent)
			assert.Equal(t, tt.imp, c.Important)
			assert.Equal(t, SourceHeuristic, c.Source)
		})
	}
}

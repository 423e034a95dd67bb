package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSetApply(t *testing.T) {
	rs := RuleSet{
		AlwaysImportant: []string{"boss@example.com", "board.example.org"},
		AlwaysIgnore:    []string{"newsletter@", "promo.example.net"},
		UrgentKeywords:  []string{"urgent", "asap"},
	}

	tests := []struct {
		name     string
		sender   string
		subject  string
		decision string
		urgent   bool
		imp      bool
	}{
		{
			name:     "important sender",
			sender:   "boss@example.com",
			subject:  "weekly sync",
			decision: DecisionHandle,
			imp:      true,
		},
		{
			name:     "important sender by domain fragment",
			sender:   "chair@board.example.org",
			subject:  "minutes",
			decision: DecisionHandle,
			imp:      true,
		},
		{
			name:     "ignored sender",
			sender:   "newsletter@shop.example.com",
			subject:  "spring sale",
			decision: DecisionIgnore,
		},
		{
			name:     "urgent keyword case insensitive",
			sender:   "someone@example.com",
			subject:  "URGENT: server down",
			decision: DecisionHandle,
			urgent:   true,
		},
		{
			name:     "important sender outranks urgent keyword",
			sender:   "boss@example.com",
			subject:  "urgent: budget",
			decision: DecisionHandle,
			imp:      true,
		},
		{
			name:     "ignored sender outranks urgent keyword",
			sender:   "newsletter@shop.example.com",
			subject:  "urgent deals inside",
			decision: DecisionIgnore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := rs.Apply(tt.sender, tt.subject)
			require.NotNil(t, out)
			assert.Equal(t, tt.decision, out.Decision)
			assert.Equal(t, tt.urgent, out.Urgent)
			assert.Equal(t, tt.imp, out.Important)
			if tt.decision == DecisionIgnore {
				assert.Equal(t, 0, out.EstimatedMinutes)
				assert.Equal(t, ActionArchive, out.RecommendedAction)
			} else {
				assert.Equal(t, forcedEstimateMinutes, out.EstimatedMinutes)
				assert.Equal(t, ActionReply, out.RecommendedAction)
			}
			assert.NotEmpty(t, out.Reason)
		})
	}
}

func TestRuleSetApply_NoMatch(t *testing.T) {
	rs := RuleSet{
		AlwaysIgnore:   []string{"newsletter@"},
		UrgentKeywords: []string{"urgent"},
	}

	assert.Nil(t, rs.Apply("colleague@example.com", "lunch tomorrow?"))
}

func TestRuleSetApply_EmptyRuleSet(t *testing.T) {
	var rs RuleSet

	assert.True(t, rs.Empty())
	assert.Nil(t, rs.Apply("anyone@example.com", "urgent"))
}

func TestRuleSetApply_EmptyPatternsNeverMatch(t *testing.T) {
	rs := RuleSet{
		AlwaysImportant: []string{""},
		AlwaysIgnore:    []string{""},
		UrgentKeywords:  []string{""},
	}

	assert.False(t, rs.Empty())
	assert.Nil(t, rs.Apply("anyone@example.com", "any subject"))
}

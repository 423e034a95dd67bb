package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/fixetime/fixetime/internal/calendar"
	"github.com/fixetime/fixetime/internal/gmail"
	"github.com/fixetime/fixetime/internal/rules"
	"github.com/fixetime/fixetime/internal/schedule"
	"github.com/fixetime/fixetime/internal/triage"
)

func newTriageCmd() *cobra.Command {
	var (
		account    string
		calendarID string
		rulesFile  string
		maxResults int64
		suggest    bool
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage the Gmail inbox into handle / schedule / ignore",
		Long: `Fetch the inbox, apply the precedence rules and the classifier to every
message, and print a decision for each one.

With --suggest, messages that should be scheduled also get a proposed
calendar slot sized to their estimated handling time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var ruleSet rules.RuleSet
			if rulesFile != "" {
				var err error
				ruleSet, err = loadRuleSet(rulesFile)
				if err != nil {
					return err
				}
			}

			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}

			emails, err := client.ListInbox(maxResults)
			if err != nil {
				return fmt.Errorf("failed to list inbox: %w", err)
			}
			if len(emails) == 0 {
				fmt.Println("Inbox is empty — nothing to triage.")
				return nil
			}

			svc := triage.NewService(ruleSet, nil, nil)
			results := svc.TriageAll(ctx, emails)

			var source schedule.IntervalSource
			cfg := schedule.DefaultConfig()
			applyScheduleEnvVars(&cfg)
			if suggest {
				calClient, err := calendar.NewClientForAccount(ctx, account)
				if err != nil {
					return fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
				}
				source = calClient.IntervalSource(calendarID)
			}

			now := time.Now()
			for i, email := range emails {
				c := results[i]
				fmt.Printf("[%s] %s\n", c.Decision, email.Subject)
				fmt.Printf("  From: %s\n", email.Sender)
				if c.Reason != "" {
					fmt.Printf("  Reason: %s (%s)\n", c.Reason, c.Source)
				}
				if c.EstimatedMinutes > 0 {
					fmt.Printf("  Estimated: %d minutes\n", c.EstimatedMinutes)
				}

				if suggest && c.Decision == triage.DecisionSchedule {
					minutes := c.EstimatedMinutes
					if minutes <= 0 {
						minutes = cfg.MinSlotMinutes
					}
					slot, err := cfg.FindOptimalSlot(source, now, minutes, now)
					if err != nil {
						log.Printf("slot search failed for %q: %v", email.Subject, err)
					} else if slot == nil {
						fmt.Printf("  Slot: none free within %d days\n", cfg.MaxLookaheadDays)
					} else {
						fmt.Printf("  Slot: %s – %s\n",
							slot.Start.Format("Mon Jan 2 15:04"),
							slot.End.Format("15:04"))
					}
				}
			}

			counts := map[triage.Decision]int{}
			for _, c := range results {
				counts[c.Decision]++
			}
			fmt.Printf("\nTriaged %d message(s): %d handle, %d schedule, %d ignore\n",
				len(results),
				counts[triage.DecisionHandle],
				counts[triage.DecisionSchedule],
				counts[triage.DecisionIgnore])
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "Calendar ID to search for free slots")
	cmd.Flags().StringVar(&rulesFile, "rules-file", "", "Path to a JSON triage rules file")
	cmd.Flags().Int64Var(&maxResults, "max-results", 50, "Maximum number of inbox messages to triage")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Suggest a calendar slot for every message that should be scheduled")
	return cmd
}

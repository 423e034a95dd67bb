package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fixetime/fixetime/internal/calendar"
	"github.com/fixetime/fixetime/internal/schedule"
)

func newSlotsCmd() *cobra.Command {
	var (
		account         string
		calendarID      string
		date            string
		durationMinutes int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show free slots, conflicts and workload for a day",
		Long: `Fetch one day of the calendar and run the slot engine over it: the free
slots inside working hours, overlaps between events, and the day's
workload classification.

With --duration, also search forward from the given day for the earliest
slot of at least that many minutes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			day := time.Now()
			if date != "" {
				var err error
				day, err = time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q: expected YYYY-MM-DD: %w", date, err)
				}
			}

			cfg := schedule.DefaultConfig()
			applyScheduleEnvVars(&cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid scheduling configuration: %w", err)
			}

			client, err := calendar.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
			}

			ds, err := client.DaySchedule(cfg, calendarID, day)
			if err != nil {
				return fmt.Errorf("failed to compute day schedule: %w", err)
			}

			fmt.Printf("Schedule for %s (%s – %s)\n",
				ds.Window.DayStart.Format("Monday, January 2 2006"),
				ds.Window.Start.Format("15:04"),
				ds.Window.End.Format("15:04"))
			fmt.Printf("Load: %s (%d busy minutes)\n\n", ds.Load.Label, ds.BusyMinutes)

			if len(ds.Busy) == 0 {
				fmt.Println("No events.")
			} else {
				fmt.Println("Busy:")
				for _, b := range ds.Busy {
					fmt.Printf("  %s – %s\n", b.Start.Format("15:04"), b.End.Format("15:04"))
				}
			}

			if len(ds.FreeSlots) == 0 {
				fmt.Println("\nNo free slots within working hours.")
			} else {
				fmt.Println("\nFree:")
				for _, s := range ds.FreeSlots {
					fmt.Printf("  %s – %s (%d minutes)\n",
						s.Start.Format("15:04"), s.End.Format("15:04"), s.Minutes)
				}
			}

			if len(ds.Conflicts) > 0 {
				fmt.Println("\nConflicts:")
				for _, c := range ds.Conflicts {
					fmt.Printf("  %s\n", c.Reason)
				}
			}

			if durationMinutes > 0 {
				slot, err := cfg.FindOptimalSlot(client.IntervalSource(calendarID), day, durationMinutes, time.Now())
				if err != nil {
					return fmt.Errorf("slot search failed: %w", err)
				}
				if slot == nil {
					fmt.Printf("\nNo free slot of %d minutes within %d days.\n",
						durationMinutes, cfg.MaxLookaheadDays)
				} else {
					fmt.Printf("\nEarliest %d-minute slot: %s – %s\n",
						durationMinutes,
						slot.Start.Format("Mon Jan 2 15:04"),
						slot.End.Format("15:04"))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "Calendar ID to inspect")
	cmd.Flags().StringVar(&date, "date", "", "Day to inspect as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&durationMinutes, "duration", 0, "Also find the earliest slot of at least this many minutes")
	return cmd
}

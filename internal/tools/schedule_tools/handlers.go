package schedule_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fixetime/fixetime/internal/instrumentation"
	"github.com/fixetime/fixetime/internal/schedule"
	"github.com/fixetime/fixetime/internal/server"
)

func handleFreeSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)
	calendarID := getCalendarID(args)

	date, err := parseDate(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := sc.ScheduleConfig()
	busy, err := client.BusyIntervalsForDay(calendarID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch events: %v", err)), nil
	}

	w := cfg.DayWindow(date)
	slots := cfg.FreeSlots(busy, w)

	if len(slots) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No free slots of at least %d minutes on %s within working hours (%s–%s)",
			cfg.MinSlotMinutes, date.Format("2006-01-02"),
			w.Start.Format("15:04"), w.End.Format("15:04"))), nil
	}

	result := fmt.Sprintf("Found %d free slot(s) on %s:\n\n", len(slots), date.Format("2006-01-02"))
	for i, slot := range slots {
		result += fmt.Sprintf("%d. %s – %s (%d minutes)\n", i+1,
			slot.Start.Format("15:04"), slot.End.Format("15:04"), slot.Minutes)
	}
	return mcp.NewToolResultText(result), nil
}

func handleOptimalSlot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)
	calendarID := getCalendarID(args)

	date, err := parseDate(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := sc.ScheduleConfig()
	minutes := cfg.MinSlotMinutes
	if m, ok := args["durationMinutes"].(float64); ok && m > 0 {
		minutes = int(m)
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	slot, err := cfg.FindOptimalSlot(client.IntervalSource(calendarID), date, minutes, time.Now())
	recordSlotSearch(ctx, sc, slot != nil, err, time.Since(start))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Slot search failed: %v", err)), nil
	}

	if slot == nil {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No free slot of %d minutes found within the next %d day(s). Consider a shorter duration or a later start date.",
			minutes, cfg.MaxLookaheadDays)), nil
	}

	result := "Optimal slot found:\n"
	result += fmt.Sprintf("Date: %s\n", slot.Start.Format("2006-01-02"))
	result += fmt.Sprintf("Time: %s – %s\n", slot.Start.Format("15:04"), slot.End.Format("15:04"))
	result += fmt.Sprintf("Duration: %d minutes\n", slot.Minutes)
	return mcp.NewToolResultText(result), nil
}

func handleSuggestSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)
	calendarID := getCalendarID(args)

	date, err := parseDate(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := sc.ScheduleConfig()
	minutes := cfg.MinSlotMinutes
	if m, ok := args["durationMinutes"].(float64); ok && m > 0 {
		minutes = int(m)
	}
	daysAhead := cfg.LookaheadDays
	if d, ok := args["daysAhead"].(float64); ok && d > 0 {
		daysAhead = int(d)
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	slots, err := cfg.SuggestedSlots(client.IntervalSource(calendarID), date, minutes, time.Now(), daysAhead)
	recordSlotSearch(ctx, sc, len(slots) > 0, err, time.Since(start))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Slot search failed: %v", err)), nil
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No free slots of %d minutes found in the next %d day(s)", minutes, daysAhead)), nil
	}

	result := fmt.Sprintf("Suggested slots (%d minutes each):\n\n", minutes)
	for i, slot := range slots {
		result += fmt.Sprintf("%d. %s %s – %s\n", i+1,
			slot.Start.Format("Mon 2006-01-02"),
			slot.Start.Format("15:04"), slot.End.Format("15:04"))
	}
	return mcp.NewToolResultText(result), nil
}

func handleConflicts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)
	calendarID := getCalendarID(args)

	date, err := parseDate(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	busy, err := client.BusyIntervalsForDay(calendarID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch events: %v", err)), nil
	}

	schedule.SortIntervals(busy)
	conflicts := schedule.DetectAllConflicts(busy)

	if len(conflicts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No conflicts on %s", date.Format("2006-01-02"))), nil
	}

	result := fmt.Sprintf("Found %d conflict(s) on %s:\n\n", len(conflicts), date.Format("2006-01-02"))
	for i, c := range conflicts {
		result += fmt.Sprintf("%d. %s\n", i+1, c.Reason)
	}
	return mcp.NewToolResultText(result), nil
}

func handleDayOverview(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)
	calendarID := getCalendarID(args)

	date, err := parseDate(args, "date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	day, err := client.DaySchedule(sc.ScheduleConfig(), calendarID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to compute day schedule: %v", err)), nil
	}

	result := fmt.Sprintf("Schedule for %s (working hours %s–%s):\n\n",
		date.Format("2006-01-02"),
		day.Window.Start.Format("15:04"), day.Window.End.Format("15:04"))

	result += fmt.Sprintf("Workload: %s (%d busy minutes)\n\n", day.Load.Label, day.BusyMinutes)

	if len(day.Busy) == 0 {
		result += "Busy: none\n"
	} else {
		result += fmt.Sprintf("Busy (%d):\n", len(day.Busy))
		for _, b := range day.Busy {
			result += fmt.Sprintf("  %s – %s\n", b.Start.Format("15:04"), b.End.Format("15:04"))
		}
	}

	if len(day.FreeSlots) == 0 {
		result += "\nFree slots: none\n"
	} else {
		result += fmt.Sprintf("\nFree slots (%d):\n", len(day.FreeSlots))
		for _, s := range day.FreeSlots {
			result += fmt.Sprintf("  %s – %s (%d minutes)\n",
				s.Start.Format("15:04"), s.End.Format("15:04"), s.Minutes)
		}
	}

	if len(day.Conflicts) > 0 {
		result += fmt.Sprintf("\nConflicts (%d):\n", len(day.Conflicts))
		for _, c := range day.Conflicts {
			result += fmt.Sprintf("  %s\n", c.Reason)
		}
	}

	return mcp.NewToolResultText(result), nil
}

// recordSlotSearch reports one slot search outcome to the metrics recorder.
func recordSlotSearch(ctx context.Context, sc *server.ServerContext, found bool, err error, duration time.Duration) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	result := instrumentation.SlotSearchFound
	switch {
	case err != nil:
		result = instrumentation.SlotSearchError
	case !found:
		result = instrumentation.SlotSearchExhausted
	}
	metrics.RecordSlotSearch(ctx, result, duration)
}

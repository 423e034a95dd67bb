package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fixetime/fixetime/internal/schedule"
	"github.com/fixetime/fixetime/internal/server"
	"github.com/fixetime/fixetime/internal/tools/common"
)

// RegisterSchedulingTools registers scheduling and availability tools with the MCP server
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Query free/busy tool
	queryFreeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Check availability for one or more calendars/attendees in a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the range (RFC3339 format, e.g., '2025-01-31T23:59:59Z')"),
		),
		mcp.WithString("calendars",
			mcp.Required(),
			mcp.Description("Comma-separated list of calendar IDs or email addresses to check"),
		),
	)

	s.AddTool(queryFreeBusyTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQueryFreeBusy(ctx, request, sc)
	})

	// Find available time tool
	findAvailableTimeTool := mcp.NewTool("calendar_find_available_time",
		mcp.WithDescription("Find available time slots within working hours for scheduling a meeting with one or more attendees"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("attendees",
			mcp.Required(),
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for search range (RFC3339 format, e.g., '2025-01-01T09:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for search range (RFC3339 format, e.g., '2025-01-01T17:00:00Z')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of available slots to return (default: 10)"),
		),
	)

	s.AddTool(findAvailableTimeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFindAvailableTime(ctx, request, sc)
	})

	// Block slot tool requires write access
	if !readOnly {
		blockSlotTool := mcp.NewTool("calendar_block_slot",
			mcp.WithDescription("Reserve a time slot on the calendar as a focus-time event, after re-checking it is still free"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("calendarId",
				mcp.Description("Calendar ID (default: 'primary')"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Slot start time (RFC3339 format)"),
			),
			mcp.WithNumber("durationMinutes",
				mcp.Required(),
				mcp.Description("Slot duration in minutes"),
			),
			mcp.WithString("summary",
				mcp.Description("Event title (default: 'Focus time')"),
			),
			mcp.WithString("description",
				mcp.Description("Event description"),
			),
		)

		s.AddTool(blockSlotTool, common.InstrumentedToolHandlerWithService(
			"calendar_block_slot", "calendar", "write", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleBlockSlot(ctx, request, sc)
			}))
	}

	return nil
}

func handleBlockSlot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	calendarID := "primary"
	if id, ok := args["calendarId"].(string); ok && id != "" {
		calendarID = id
	}

	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start: %v", err)), nil
	}

	minutes, ok := args["durationMinutes"].(float64)
	if !ok || minutes <= 0 {
		return mcp.NewToolResultError("durationMinutes is required and must be positive"), nil
	}

	summary := "Focus time"
	if s, ok := args["summary"].(string); ok && s != "" {
		summary = s
	}
	description := ""
	if d, ok := args["description"].(string); ok {
		description = d
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	end := start.Add(time.Duration(minutes) * time.Minute)

	// The slot may have been taken between the search and this call.
	free, err := client.SlotIsFree(calendarID, start, end)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to verify slot availability: %v", err)), nil
	}
	if !free {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Slot %s – %s is no longer free. Run schedule_find_optimal_slot again to find a new one.",
			start.Format("15:04"), end.Format("15:04"))), nil
	}

	slot := schedule.OptimalSlot{Start: start, End: end, Minutes: int(minutes)}
	event, err := client.BlockSlot(calendarID, slot, summary, description)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to block slot: %v", err)), nil
	}

	result := "Slot blocked successfully:\n"
	result += fmt.Sprintf("Event ID: %s\n", event.ID)
	result += fmt.Sprintf("Summary: %s\n", event.Summary)
	result += fmt.Sprintf("Time: %s – %s\n", start.Format("2006-01-02 15:04"), end.Format("15:04"))
	return mcp.NewToolResultText(result), nil
}

func handleQueryFreeBusy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
	}

	calendarsStr, ok := args["calendars"].(string)
	if !ok || calendarsStr == "" {
		return mcp.NewToolResultError("calendars is required"), nil
	}

	calendars := strings.Split(calendarsStr, ",")
	for i := range calendars {
		calendars[i] = strings.TrimSpace(calendars[i])
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	freeBusyInfos, err := client.QueryFreeBusy(timeMin, timeMax, calendars)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
	}

	result := fmt.Sprintf("Free/Busy information for %d calendar(s):\n\n", len(freeBusyInfos))
	for _, info := range freeBusyInfos {
		result += fmt.Sprintf("Calendar: %s\n", info.Calendar)

		if len(info.Errors) > 0 {
			result += fmt.Sprintf("  Errors: %s\n", strings.Join(info.Errors, ", "))
		}

		if len(info.Busy) == 0 {
			result += "  Status: FREE for entire range\n"
		} else {
			result += fmt.Sprintf("  Busy periods: %d\n", len(info.Busy))
			for i, busy := range info.Busy {
				result += fmt.Sprintf("  %d. %s to %s\n",
					i+1,
					busy.Start.Format("2006-01-02 15:04"),
					busy.End.Format("2006-01-02 15:04"))
			}
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleFindAvailableTime(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	attendeesStr, ok := args["attendees"].(string)
	if !ok || attendeesStr == "" {
		return mcp.NewToolResultError("attendees is required"), nil
	}

	attendees := strings.Split(attendeesStr, ",")
	for i := range attendees {
		attendees[i] = strings.TrimSpace(attendees[i])
	}

	durationMinutes, ok := args["durationMinutes"].(float64)
	if !ok || durationMinutes <= 0 {
		return mcp.NewToolResultError("durationMinutes is required and must be positive"), nil
	}

	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
	}

	maxResults := 10
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int(maxResultsVal)
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// One free/busy query covers every attendee; their combined busy time
	// is treated as a single calendar when computing free gaps.
	freeBusyInfos, err := client.QueryFreeBusy(timeMin, timeMax, attendees)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
	}

	var busy []schedule.BusyInterval
	for _, info := range freeBusyInfos {
		for _, r := range info.Busy {
			busy = append(busy, schedule.BusyInterval{Start: r.Start, End: r.End})
		}
	}

	slots := findSlotsInRange(sc.ScheduleConfig(), busy, timeMin, timeMax, int(durationMinutes), maxResults)

	if len(slots) == 0 {
		return mcp.NewToolResultText("No available time slots found for the specified criteria"), nil
	}

	result := fmt.Sprintf("Found %d available time slot(s) for %d minute meeting:\n\n",
		len(slots), int(durationMinutes))

	for i, slot := range slots {
		result += fmt.Sprintf("%d. %s to %s (%s)\n",
			i+1,
			slot.Start.Format("Mon, Jan 2 at 15:04"),
			slot.End.Format("15:04 MST"),
			slot.Start.Weekday())
	}

	return mcp.NewToolResultText(result), nil
}

// findSlotsInRange walks the working windows of each day in [timeMin, timeMax]
// and collects free gaps long enough to hold the requested duration. Each
// returned slot is trimmed to exactly the requested length.
func findSlotsInRange(cfg schedule.Config, busy []schedule.BusyInterval, timeMin, timeMax time.Time, durationMinutes, maxResults int) []schedule.OptimalSlot {
	var slots []schedule.OptimalSlot

	for day := timeMin; day.Before(timeMax) && len(slots) < maxResults; day = day.AddDate(0, 0, 1) {
		w := cfg.DayWindow(day)
		if w.Start.Before(timeMin) {
			w.Start = timeMin
		}
		if w.End.After(timeMax) {
			w.End = timeMax
		}
		if !w.End.After(w.Start) {
			continue
		}

		for _, free := range cfg.FreeSlots(busy, w) {
			if free.Minutes < durationMinutes {
				continue
			}
			slots = append(slots, schedule.OptimalSlot{
				Start:   free.Start,
				End:     free.Start.Add(time.Duration(durationMinutes) * time.Minute),
				Minutes: durationMinutes,
			})
			if len(slots) >= maxResults {
				break
			}
		}
	}

	return slots
}

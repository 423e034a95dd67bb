package schedule_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fixetime/fixetime/internal/calendar"
	"github.com/fixetime/fixetime/internal/server"
	"github.com/fixetime/fixetime/internal/tools/common"
)

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	account := "default"
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		account = accountVal
	}
	return account
}

// getCalendarClient retrieves or creates a calendar client for the specified account
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !calendar.HasTokenForAccount(account) {
			authURL := calendar.GetAuthURLForAccount(account)
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services (Calendar, Gmail, Tasks)
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = calendar.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		sc.SetCalendarClientForAccount(account, client)
	}
	return client, nil
}

// getCalendarID extracts the calendar ID from arguments, defaulting to "primary"
func getCalendarID(args map[string]interface{}) string {
	if id, ok := args["calendarId"].(string); ok && id != "" {
		return id
	}
	return "primary"
}

// parseDate parses a date argument (YYYY-MM-DD or RFC3339), defaulting to today
func parseDate(args map[string]interface{}, key string) (time.Time, error) {
	dateStr, ok := args[key].(string)
	if !ok || dateStr == "" {
		return time.Now(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", dateStr, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected YYYY-MM-DD or RFC3339, got %q", key, dateStr)
	}
	return t, nil
}

// RegisterScheduleTools registers all schedule engine tools with the MCP server.
// All schedule tools are read-only; blocking a slot lives with the calendar tools.
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Free slots tool
	freeSlotsTool := mcp.NewTool("schedule_free_slots",
		mcp.WithDescription("List free time slots within working hours for a given day"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("date",
			mcp.Description("Day to examine (YYYY-MM-DD, default: today)"),
		),
	)

	s.AddTool(freeSlotsTool, common.InstrumentedToolHandlerWithService(
		"schedule_free_slots", "calendar", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFreeSlots(ctx, request, sc)
		}))

	// Optimal slot tool
	optimalSlotTool := mcp.NewTool("schedule_find_optimal_slot",
		mcp.WithDescription("Find the earliest free slot of a given duration, rolling over to later days when today is full"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("date",
			mcp.Description("Day to start the search from (YYYY-MM-DD, default: today)"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Required slot duration in minutes (default: configured minimum)"),
		),
	)

	s.AddTool(optimalSlotTool, common.InstrumentedToolHandlerWithService(
		"schedule_find_optimal_slot", "calendar", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleOptimalSlot(ctx, request, sc)
		}))

	// Suggested slots tool
	suggestSlotsTool := mcp.NewTool("schedule_suggest_slots",
		mcp.WithDescription("Suggest one candidate slot per day over the next several days"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("date",
			mcp.Description("First day to examine (YYYY-MM-DD, default: today)"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Required slot duration in minutes (default: configured minimum)"),
		),
		mcp.WithNumber("daysAhead",
			mcp.Description("Number of days to examine (default: configured lookahead)"),
		),
	)

	s.AddTool(suggestSlotsTool, common.InstrumentedToolHandlerWithService(
		"schedule_suggest_slots", "calendar", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSuggestSlots(ctx, request, sc)
		}))

	// Conflicts tool
	conflictsTool := mcp.NewTool("schedule_detect_conflicts",
		mcp.WithDescription("Detect overlapping events (double bookings) on a given day"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("date",
			mcp.Description("Day to examine (YYYY-MM-DD, default: today)"),
		),
	)

	s.AddTool(conflictsTool, common.InstrumentedToolHandlerWithService(
		"schedule_detect_conflicts", "calendar", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleConflicts(ctx, request, sc)
		}))

	// Day schedule tool
	dayScheduleTool := mcp.NewTool("schedule_day_load",
		mcp.WithDescription("Full scheduling view of one day: busy intervals, free slots, conflicts, and workload"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("date",
			mcp.Description("Day to examine (YYYY-MM-DD, default: today)"),
		),
	)

	s.AddTool(dayScheduleTool, common.InstrumentedToolHandlerWithService(
		"schedule_day_load", "calendar", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDayOverview(ctx, request, sc)
		}))

	return nil
}

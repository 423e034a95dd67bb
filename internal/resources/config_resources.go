package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fixetime/fixetime/internal/server"
)

// RegisterConfigResources registers resources exposing the server's triage
// rules and scheduling configuration so clients can inspect how decisions
// are being made.
func RegisterConfigResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	rulesResource := mcp.NewResource(
		"config://triage/rules",
		"Triage Rules",
		mcp.WithResourceDescription("Sender and keyword rules applied before email classification"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(rulesResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return marshalResource(request, sc.TriageRules())
	})

	scheduleResource := mcp.NewResource(
		"config://schedule",
		"Scheduling Configuration",
		mcp.WithResourceDescription("Working day window and slot search settings"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(scheduleResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cfg := sc.ScheduleConfig()
		return marshalResource(request, map[string]interface{}{
			"workStartHour":    cfg.WorkStartHour,
			"workEndHour":      cfg.WorkEndHour,
			"minSlotMinutes":   cfg.MinSlotMinutes,
			"lookaheadDays":    cfg.LookaheadDays,
			"maxLookaheadDays": cfg.MaxLookaheadDays,
		})
	})

	return nil
}

func marshalResource(request mcp.ReadResourceRequest, v interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

package triage_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fixetime/fixetime/internal/gmail"
	"github.com/fixetime/fixetime/internal/server"
	"github.com/fixetime/fixetime/internal/tools/batch"
	"github.com/fixetime/fixetime/internal/triage"
)

func handleTriageInbox(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	maxResults := int64(20)
	if m, ok := args["maxResults"].(float64); ok && m > 0 {
		maxResults = int64(m)
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	emails, err := client.ListInbox(maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list inbox: %v", err)), nil
	}

	if len(emails) == 0 {
		return mcp.NewToolResultText("Inbox is empty — nothing to triage"), nil
	}

	svc := triageService(sc)
	results := svc.TriageAll(ctx, emails)
	recordDecisions(ctx, sc, results)

	var counts = map[triage.Decision]int{}
	for _, r := range results {
		counts[r.Decision]++
	}

	result := fmt.Sprintf("Triaged %d message(s): %d handle, %d schedule, %d ignore\n\n",
		len(results),
		counts[triage.DecisionHandle],
		counts[triage.DecisionSchedule],
		counts[triage.DecisionIgnore])

	for i, e := range emails {
		c := results[i]
		result += fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(string(c.Decision)), e.Subject)
		result += fmt.Sprintf("   From: %s\n", e.Sender)
		result += fmt.Sprintf("   Message ID: %s (thread %s)\n", e.ID, e.ThreadID)
		result += formatClassification(c, "   ")
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleTriageClassify(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	var email triage.Email
	if messageID, ok := args["messageId"].(string); ok && messageID != "" {
		client, err := getGmailClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg, err := client.GetMessage(messageID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
		}
		email = gmail.ToTriageEmail(msg)
	} else {
		if sender, ok := args["sender"].(string); ok {
			email.Sender = sender
		}
		if subject, ok := args["subject"].(string); ok {
			email.Subject = subject
		}
		if snippet, ok := args["snippet"].(string); ok {
			email.Snippet = snippet
		}
		if email.Sender == "" && email.Subject == "" {
			return mcp.NewToolResultError("either messageId or sender/subject is required"), nil
		}
	}

	c := triageService(sc).Triage(ctx, email)
	recordDecisions(ctx, sc, []triage.Classification{c})

	result := fmt.Sprintf("Decision: %s\n", c.Decision)
	result += formatClassification(c, "")
	return mcp.NewToolResultText(result), nil
}

// formatClassification renders the shared detail lines of a classification.
func formatClassification(c triage.Classification, indent string) string {
	var flags []string
	if c.Urgent {
		flags = append(flags, "urgent")
	}
	if c.Important {
		flags = append(flags, "important")
	}

	result := ""
	if len(flags) > 0 {
		result += fmt.Sprintf("%sFlags: %s\n", indent, strings.Join(flags, ", "))
	}
	if c.EstimatedMinutes > 0 {
		result += fmt.Sprintf("%sEstimated: %d minutes\n", indent, c.EstimatedMinutes)
	}
	if c.RecommendedAction != "" {
		result += fmt.Sprintf("%sRecommended action: %s\n", indent, c.RecommendedAction)
	}
	if c.Reason != "" {
		result += fmt.Sprintf("%sReason: %s\n", indent, c.Reason)
	}
	result += fmt.Sprintf("%sSource: %s\n", indent, c.Source)
	return result
}

// recordDecisions reports triage outcomes to the metrics recorder.
func recordDecisions(ctx context.Context, sc *server.ServerContext, results []triage.Classification) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}
	for _, c := range results {
		metrics.RecordTriageDecision(ctx, string(c.Decision), c.Source)
	}
}

func handleGetUnsubscribeInfo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := client.GetUnsubscribeInfo(messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get unsubscribe info: %v", err)), nil
	}

	if !info.HasUnsubscribe {
		return mcp.NewToolResultText("No List-Unsubscribe header found on this message"), nil
	}

	result := fmt.Sprintf("Found %d unsubscribe method(s):\n", len(info.Methods))
	for i, m := range info.Methods {
		result += fmt.Sprintf("%d. [%s] %s\n", i+1, m.Type, m.URL)
	}
	result += "\nUse triage_unsubscribe with an http URL to unsubscribe automatically."
	return mcp.NewToolResultText(result), nil
}

func handleArchive(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.ProcessBatch(messageIDs, func(messageID string) (string, error) {
		if err := client.ArchiveMessage(messageID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Message %s archived", messageID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleReply(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	threadID, ok := args["threadId"].(string)
	if !ok || threadID == "" {
		return mcp.NewToolResultError("threadId is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}

	var cc []string
	if ccStr, ok := args["cc"].(string); ok && ccStr != "" {
		cc = splitAddresses(ccStr)
	}

	isHTML := false
	if h, ok := args["html"].(bool); ok {
		isHTML = h
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := client.ReplyToEmail(messageID, threadID, body, cc, nil, isHTML)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send reply: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reply sent (message ID: %s)", id)), nil
}

func handleForward(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	toStr, ok := args["to"].(string)
	if !ok || toStr == "" {
		return mcp.NewToolResultError("to is required"), nil
	}
	to := splitAddresses(toStr)

	note := ""
	if n, ok := args["note"].(string); ok {
		note = n
	}

	isHTML := false
	if h, ok := args["html"].(bool); ok {
		isHTML = h
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := client.ForwardEmail(messageID, to, nil, nil, note, isHTML)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to forward message: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Message forwarded to %s (message ID: %s)",
		strings.Join(to, ", "), id)), nil
}

func handleUnsubscribe(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	url, ok := args["url"].(string)
	if !ok || url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.UnsubscribeViaHTTP(url); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Unsubscribe request failed: %v", err)), nil
	}

	return mcp.NewToolResultText("Unsubscribe request sent successfully"), nil
}

func handleMarkSpam(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, spam bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	threadID, ok := args["threadId"].(string)
	if !ok || threadID == "" {
		return mcp.NewToolResultError("threadId is required"), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if spam {
		if err := client.MarkThreadAsSpam(threadID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to mark thread as spam: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Thread %s marked as spam", threadID)), nil
	}

	if err := client.UnmarkThreadAsSpam(threadID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to unmark thread as spam: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Thread %s moved back to inbox", threadID)), nil
}

func handleMaterializeFilters(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	rs := sc.TriageRules()
	if len(rs.AlwaysIgnore) == 0 {
		return mcp.NewToolResultText("The always-ignore list is empty — no filters to create"), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := client.MaterializeIgnoreRules(rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create filters: %v", err)), nil
	}

	if len(created) == 0 {
		return mcp.NewToolResultText("All always-ignore senders already have archive filters"), nil
	}

	result := fmt.Sprintf("Created %d filter(s):\n", len(created))
	for i, f := range created {
		result += fmt.Sprintf("%d. From: %s → archive (filter ID: %s)\n", i+1, f.Criteria.From, f.ID)
	}
	return mcp.NewToolResultText(result), nil
}

// splitAddresses splits a comma-separated address list, trimming whitespace.
func splitAddresses(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func handleListFilters(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filters, err := client.ListFilters()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list filters: %v", err)), nil
	}

	if len(filters) == 0 {
		return mcp.NewToolResultText("No filters on this account"), nil
	}

	result := fmt.Sprintf("Found %d filter(s):\n", len(filters))
	for i, f := range filters {
		result += fmt.Sprintf("%d. %s\n", i+1, f.ID)
		result += describeFilter(f, "   ")
	}
	return mcp.NewToolResultText(result), nil
}

// describeFilter renders the non-empty criteria and actions of a filter,
// one per line.
func describeFilter(f *gmail.FilterInfo, indent string) string {
	var result string
	if f.Criteria.From != "" {
		result += fmt.Sprintf("%sFrom: %s\n", indent, f.Criteria.From)
	}
	if f.Criteria.To != "" {
		result += fmt.Sprintf("%sTo: %s\n", indent, f.Criteria.To)
	}
	if f.Criteria.Subject != "" {
		result += fmt.Sprintf("%sSubject: %s\n", indent, f.Criteria.Subject)
	}
	if f.Criteria.Query != "" {
		result += fmt.Sprintf("%sQuery: %s\n", indent, f.Criteria.Query)
	}

	var actions []string
	if f.Action.Archive {
		actions = append(actions, "archive")
	}
	if f.Action.MarkAsRead {
		actions = append(actions, "mark read")
	}
	if f.Action.Star {
		actions = append(actions, "star")
	}
	if f.Action.MarkAsSpam {
		actions = append(actions, "spam")
	}
	if f.Action.Delete {
		actions = append(actions, "trash")
	}
	if f.Action.Forward != "" {
		actions = append(actions, "forward to "+f.Action.Forward)
	}
	if len(actions) > 0 {
		result += fmt.Sprintf("%sActions: %s\n", indent, strings.Join(actions, ", "))
	}
	return result
}

func handleDeleteFilter(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	filterID, ok := args["filterId"].(string)
	if !ok || filterID == "" {
		return mcp.NewToolResultError("filterId is required"), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.DeleteFilter(filterID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete filter: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Filter %s deleted", filterID)), nil
}

func handleArchiveThreads(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, archive bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	threadIDs, err := batch.ParseStringOrArray(args["threadIds"], "threadIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getGmailClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.ProcessBatch(threadIDs, func(threadID string) (string, error) {
		if archive {
			if err := client.ArchiveThread(threadID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Thread %s archived", threadID), nil
		}
		if err := client.UnarchiveThread(threadID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Thread %s moved back to inbox", threadID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

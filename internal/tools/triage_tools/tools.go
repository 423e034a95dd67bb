package triage_tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fixetime/fixetime/internal/gmail"
	"github.com/fixetime/fixetime/internal/server"
	"github.com/fixetime/fixetime/internal/tools/common"
	"github.com/fixetime/fixetime/internal/triage"
)

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	account := "default"
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		account = accountVal
	}
	return account
}

// getGmailClient retrieves or creates a Gmail client for the specified account
func getGmailClient(ctx context.Context, account string, sc *server.ServerContext) (*gmail.Client, error) {
	client := sc.GmailClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !gmail.HasTokenForAccount(account) {
			authURL := gmail.GetAuthURLForAccount(account)
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services (Gmail, Calendar, Tasks)
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = gmail.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
		}
		sc.SetGmailClientForAccount(account, client)
	}
	return client, nil
}

// triageService builds a triage service over the server's current rule set.
// There is no language-model classifier wired in; unmatched mail falls to
// the keyword heuristic.
func triageService(sc *server.ServerContext) *triage.Service {
	return triage.NewService(sc.TriageRules(), nil, slog.Default())
}

// RegisterTriageTools registers all triage-related tools with the MCP server
func RegisterTriageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Triage inbox tool
	triageInboxTool := mcp.NewTool("triage_inbox",
		mcp.WithDescription("Fetch recent inbox messages and classify each one: handle now, schedule for later, or ignore"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of inbox messages to triage (default: 20)"),
		),
	)

	s.AddTool(triageInboxTool, common.InstrumentedToolHandlerWithService(
		"triage_inbox", "gmail", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTriageInbox(ctx, request, sc)
		}))

	// Classify single message tool
	classifyTool := mcp.NewTool("triage_classify",
		mcp.WithDescription("Classify a single email by message ID, or by sender/subject without fetching"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Description("Gmail message ID to fetch and classify"),
		),
		mcp.WithString("sender",
			mcp.Description("Sender address to classify directly (used when messageId is absent)"),
		),
		mcp.WithString("subject",
			mcp.Description("Subject to classify directly (used when messageId is absent)"),
		),
		mcp.WithString("snippet",
			mcp.Description("Message snippet for the heuristic (used when messageId is absent)"),
		),
	)

	s.AddTool(classifyTool, common.InstrumentedToolHandlerWithService(
		"triage_classify", "gmail", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTriageClassify(ctx, request, sc)
		}))

	// Unsubscribe info tool (read-only)
	unsubscribeInfoTool := mcp.NewTool("triage_get_unsubscribe_info",
		mcp.WithDescription("Extract List-Unsubscribe methods from a message"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Gmail message ID to inspect"),
		),
	)

	s.AddTool(unsubscribeInfoTool, common.InstrumentedToolHandlerWithService(
		"triage_get_unsubscribe_info", "gmail", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetUnsubscribeInfo(ctx, request, sc)
		}))

	// List filters tool (read-only)
	listFiltersTool := mcp.NewTool("triage_list_filters",
		mcp.WithDescription("List the Gmail filters on the account, including ones created by triage_materialize_filters"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(listFiltersTool, common.InstrumentedToolHandlerWithService(
		"triage_list_filters", "gmail", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFilters(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Archive messages tool
	archiveTool := mcp.NewTool("triage_archive",
		mcp.WithDescription("Archive one or more messages (remove from inbox)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to archive"),
		),
	)

	s.AddTool(archiveTool, common.InstrumentedToolHandlerWithService(
		"triage_archive", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleArchive(ctx, request, sc)
		}))

	// Reply tool
	replyTool := mcp.NewTool("triage_reply",
		mcp.WithDescription("Reply to an email in its existing thread"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Gmail message ID to reply to"),
		),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("Thread ID the message belongs to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Reply body"),
		),
		mcp.WithString("cc",
			mcp.Description("Comma-separated CC addresses"),
		),
		mcp.WithBoolean("html",
			mcp.Description("Send the body as HTML (default: false)"),
		),
	)

	s.AddTool(replyTool, common.InstrumentedToolHandlerWithService(
		"triage_reply", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReply(ctx, request, sc)
		}))

	// Forward (delegate) tool
	forwardTool := mcp.NewTool("triage_forward",
		mcp.WithDescription("Forward an email to someone else, optionally with a note (delegation)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("Gmail message ID to forward"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Comma-separated recipient addresses"),
		),
		mcp.WithString("note",
			mcp.Description("Note to prepend above the forwarded message"),
		),
		mcp.WithBoolean("html",
			mcp.Description("Send as HTML (default: false)"),
		),
	)

	s.AddTool(forwardTool, common.InstrumentedToolHandlerWithService(
		"triage_forward", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleForward(ctx, request, sc)
		}))

	// Unsubscribe tool
	unsubscribeTool := mcp.NewTool("triage_unsubscribe",
		mcp.WithDescription("Unsubscribe from a mailing list via its HTTP List-Unsubscribe link"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("HTTP unsubscribe URL obtained from triage_get_unsubscribe_info"),
		),
	)

	s.AddTool(unsubscribeTool, common.InstrumentedToolHandlerWithService(
		"triage_unsubscribe", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUnsubscribe(ctx, request, sc)
		}))

	// Spam tools
	markSpamTool := mcp.NewTool("triage_mark_spam",
		mcp.WithDescription("Move a thread to spam"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("Thread ID to mark as spam"),
		),
	)

	s.AddTool(markSpamTool, common.InstrumentedToolHandlerWithService(
		"triage_mark_spam", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMarkSpam(ctx, request, sc, true)
		}))

	unmarkSpamTool := mcp.NewTool("triage_unmark_spam",
		mcp.WithDescription("Move a thread out of spam back to the inbox"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadId",
			mcp.Required(),
			mcp.Description("Thread ID to unmark as spam"),
		),
	)

	s.AddTool(unmarkSpamTool, common.InstrumentedToolHandlerWithService(
		"triage_unmark_spam", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMarkSpam(ctx, request, sc, false)
		}))

	// Materialize ignore rules as Gmail filters
	materializeTool := mcp.NewTool("triage_materialize_filters",
		mcp.WithDescription("Create Gmail filters that auto-archive mail from senders on the always-ignore list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(materializeTool, common.InstrumentedToolHandlerWithService(
		"triage_materialize_filters", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMaterializeFilters(ctx, request, sc)
		}))

	// Delete filter tool
	deleteFilterTool := mcp.NewTool("triage_delete_filter",
		mcp.WithDescription("Delete a Gmail filter by ID"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("filterId",
			mcp.Required(),
			mcp.Description("Filter ID to delete (see triage_list_filters)"),
		),
	)

	s.AddTool(deleteFilterTool, common.InstrumentedToolHandlerWithService(
		"triage_delete_filter", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteFilter(ctx, request, sc)
		}))

	// Thread archive tools
	archiveThreadsTool := mcp.NewTool("triage_archive_threads",
		mcp.WithDescription("Archive one or more whole threads (remove every message from the inbox)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadIds",
			mcp.Required(),
			mcp.Description("Thread ID (string) or array of thread IDs to archive"),
		),
	)

	s.AddTool(archiveThreadsTool, common.InstrumentedToolHandlerWithService(
		"triage_archive_threads", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleArchiveThreads(ctx, request, sc, true)
		}))

	unarchiveThreadsTool := mcp.NewTool("triage_unarchive_threads",
		mcp.WithDescription("Move one or more archived threads back to the inbox"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("threadIds",
			mcp.Required(),
			mcp.Description("Thread ID (string) or array of thread IDs to unarchive"),
		),
	)

	s.AddTool(unarchiveThreadsTool, common.InstrumentedToolHandlerWithService(
		"triage_unarchive_threads", "gmail", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleArchiveThreads(ctx, request, sc, false)
		}))

	return nil
}

// Package gmail provides a client for interacting with the Gmail API.
//
// This package offers the Gmail functionality the triage pipeline needs:
//   - Inbox listing converted into triage emails
//   - Thread and message management (archive, spam, iterate)
//   - Email operations (send, reply, forward)
//   - Gmail filters, including materializing ignore rules as filters
//   - Unsubscribe link detection and execution
//
// The client supports multi-account authentication using the Google OAuth2 flow
// and can manage emails across multiple Google accounts.
//
// Authentication:
// This package uses the unified Google OAuth token from the google package.
// For HTTP/SSE transports: OAuth is handled automatically by the MCP client.
// For STDIO transport: Tokens are loaded from the file system (~/.cache/fixetime/).
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch inbox messages for triage
//	emails, err := client.ListInbox(50)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Send an email
//	msg := &gmail.EmailMessage{
//	    To:      []string{"recipient@example.com"},
//	    Subject: "Hello",
//	    Body:    "This is a test email",
//	    IsHTML:  false,
//	}
//	msgID, err := client.SendEmail(msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail

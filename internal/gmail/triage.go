package gmail

import (
	"fmt"
	"net/mail"
	"time"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/fixetime/fixetime/internal/triage"
)

// HeaderValue extracts a header value from a Gmail message
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if mph.Name == header {
			return mph.Value
		}
	}
	return ""
}

// ToTriageEmail converts a Gmail message into the triage view. The sender
// is reduced to the bare address when the From header parses; otherwise the
// raw header value is kept so rules can still match on it.
func ToTriageEmail(m *gmail.Message) triage.Email {
	if m == nil {
		return triage.Email{}
	}

	sender := HeaderValue(m, "From")
	if addr, err := mail.ParseAddress(sender); err == nil {
		sender = addr.Address
	}

	e := triage.Email{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Sender:   sender,
		Subject:  HeaderValue(m, "Subject"),
		Snippet:  m.Snippet,
	}

	// InternalDate is milliseconds since the epoch; zero stays zero time
	if m.InternalDate > 0 {
		e.Received = time.UnixMilli(m.InternalDate)
	}

	return e
}

// ListInbox fetches up to maxResults inbox messages and converts them for
// triage. Messages are fetched in metadata format since classification
// only needs headers and the snippet.
func (c *Client) ListInbox(maxResults int64) ([]triage.Email, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	res, err := c.svc.Messages.List("me").Q("in:inbox").MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	var emails []triage.Email
	for _, stub := range res.Messages {
		msg, err := c.svc.Messages.Get("me", stub.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", stub.Id, err)
		}
		emails = append(emails, ToTriageEmail(msg))
	}

	return emails, nil
}

// ArchiveMessage archives a single message by removing the INBOX label
func (c *Client) ArchiveMessage(messageID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"INBOX"},
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to archive message %s: %w", messageID, err)
	}
	return nil
}

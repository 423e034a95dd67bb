package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	IsHTML  bool
}

// messageHeaders holds the RFC 2822 headers for an outgoing message.
// Threading headers are only set for replies.
type messageHeaders struct {
	To         []string
	Cc         []string
	Bcc        []string
	Subject    string
	InReplyTo  string
	References string
	IsHTML     bool
}

// composeMessage builds a raw RFC 2822 message and returns it base64url
// encoded, ready for the Gmail send API. The user's signature is appended
// to the body.
func (c *Client) composeMessage(h messageHeaders, body string) string {
	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(strings.Join(h.To, ", "))
	b.WriteString("\r\n")

	if len(h.Cc) > 0 {
		b.WriteString("Cc: ")
		b.WriteString(strings.Join(h.Cc, ", "))
		b.WriteString("\r\n")
	}
	if len(h.Bcc) > 0 {
		b.WriteString("Bcc: ")
		b.WriteString(strings.Join(h.Bcc, ", "))
		b.WriteString("\r\n")
	}

	// Encode for non-ASCII characters like umlauts
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(h.Subject))
	b.WriteString("\r\n")

	// Threading headers for replies
	if h.InReplyTo != "" {
		b.WriteString("In-Reply-To: ")
		b.WriteString(h.InReplyTo)
		b.WriteString("\r\n")
	}
	if h.References != "" {
		b.WriteString("References: ")
		b.WriteString(h.References)
		b.WriteString("\r\n")
	}

	if h.IsHTML {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")

	b.WriteString(c.appendSignature(body, h.IsHTML))

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// SendEmail sends an email through Gmail API
func (c *Client) SendEmail(msg *EmailMessage) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if msg.Body == "" {
		return "", fmt.Errorf("body is required")
	}

	raw := c.composeMessage(messageHeaders{
		To:      msg.To,
		Cc:      msg.Cc,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		IsHTML:  msg.IsHTML,
	}, msg.Body)

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

// ReplyToEmail sends a reply to an existing email message
func (c *Client) ReplyToEmail(messageID, threadID, body string, cc, bcc []string, isHTML bool) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("messageID is required")
	}
	if threadID == "" {
		return "", fmt.Errorf("threadID is required")
	}
	if body == "" {
		return "", fmt.Errorf("body is required")
	}

	// Get the original message to extract headers
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return "", fmt.Errorf("failed to get original message: %w", err)
	}

	originalFrom := HeaderValue(msg, "From")
	originalMessageID := HeaderValue(msg, "Message-ID")
	originalReferences := HeaderValue(msg, "References")

	if originalFrom == "" {
		return "", fmt.Errorf("original message has no From header")
	}

	// Build References header for proper threading
	references := originalMessageID
	if originalReferences != "" {
		references = originalReferences + " " + originalMessageID
	}

	raw := c.composeMessage(messageHeaders{
		To:         []string{originalFrom},
		Cc:         cc,
		Bcc:        bcc,
		Subject:    replySubject(HeaderValue(msg, "Subject")),
		InReplyTo:  originalMessageID,
		References: references,
		IsHTML:     isHTML,
	}, body)

	// Send the reply with threadID to maintain threading
	sent, err := c.svc.Messages.Send("me", &gmail.Message{
		Raw:      raw,
		ThreadId: threadID,
	}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}

	return sent.Id, nil
}

// ForwardEmail forwards an existing email message to new recipients,
// typically to delegate its handling to someone else
func (c *Client) ForwardEmail(messageID string, to, cc, bcc []string, additionalBody string, isHTML bool) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("messageID is required")
	}
	if len(to) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}

	// Get the original message
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return "", fmt.Errorf("failed to get original message: %w", err)
	}

	// Get the original message body, falling back from HTML to text
	var originalBody string
	if isHTML {
		originalBody, _ = c.GetMessageBody(messageID, "html")
	}
	if originalBody == "" {
		originalBody, _ = c.GetMessageBody(messageID, "text")
	}

	forwardedBody := forwardBody(additionalBody, originalBody, msg, isHTML)

	raw := c.composeMessage(messageHeaders{
		To:      to,
		Cc:      cc,
		Bcc:     bcc,
		Subject: forwardSubject(HeaderValue(msg, "Subject")),
		IsHTML:  isHTML,
	}, forwardedBody)

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to forward email: %w", err)
	}

	return sent.Id, nil
}

// replySubject adds "Re: " unless the subject already carries it
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

// forwardSubject adds "Fwd: " unless the subject already carries a forward marker
func forwardSubject(subject string) string {
	lower := strings.ToLower(subject)
	if strings.HasPrefix(lower, "fwd:") || strings.HasPrefix(lower, "fw:") {
		return subject
	}
	return "Fwd: " + subject
}

// forwardBody assembles the conventional forwarded-message block below the
// sender's own note
func forwardBody(note, originalBody string, msg *gmail.Message, isHTML bool) string {
	from := HeaderValue(msg, "From")
	to := HeaderValue(msg, "To")
	subject := HeaderValue(msg, "Subject")
	date := HeaderValue(msg, "Date")

	if isHTML {
		return note + "<br><br>" +
			"---------- Forwarded message ---------<br>" +
			fmt.Sprintf("From: %s<br>", from) +
			fmt.Sprintf("Date: %s<br>", date) +
			fmt.Sprintf("Subject: %s<br>", subject) +
			fmt.Sprintf("To: %s<br><br>", to) +
			originalBody
	}
	return note + "\n\n" +
		"---------- Forwarded message ---------\n" +
		fmt.Sprintf("From: %s\n", from) +
		fmt.Sprintf("Date: %s\n", date) +
		fmt.Sprintf("Subject: %s\n", subject) +
		fmt.Sprintf("To: %s\n\n", to) +
		originalBody
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047
// This is necessary for non-ASCII characters (like German umlauts) in subjects
func encodeRFC2047(s string) string {
	// Check if the string contains only ASCII characters
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}

	// If it's all ASCII, return as-is
	if !needsEncoding {
		return s
	}

	// Use Go's mime package which implements RFC 2047 encoding
	return mime.BEncoding.Encode("UTF-8", s)
}

// GetSignature fetches the user's Gmail signature (primary send-as address)
// The signature is cached after the first fetch
func (c *Client) GetSignature() (string, error) {
	// Return cached signature if available
	if c.signature != "" {
		return c.signature, nil
	}

	// Fetch send-as settings to get the signature
	sendAs, err := c.svc.Settings.SendAs.Get("me", "me").Do()
	if err != nil {
		// If we can't fetch the signature, return empty string (not an error)
		// This allows emails to be sent even if signature fetching fails
		return "", nil
	}

	// Cache the signature
	if sendAs.Signature != "" {
		c.signature = sendAs.Signature
	}

	return c.signature, nil
}

// appendSignature adds the user's signature to the email body
func (c *Client) appendSignature(body string, isHTML bool) string {
	signature, err := c.GetSignature()
	if err != nil || signature == "" {
		// No signature or error fetching it, return body as-is
		return body
	}

	if isHTML {
		return body + "<br><br>-- <br>" + signature
	}
	return body + "\n\n-- \n" + signature
}

// Package email sends reminder messages through Resend and verifies the
// delivery webhooks Resend posts back.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Tag is a name/value pair attached to an outgoing message. Resend echoes tags
// back unchanged in webhook payloads.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Tags    []Tag
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// ResendSender implements Sender with the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg *Message) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("recipient is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	for _, t := range msg.Tags {
		params.Tags = append(params.Tags, resend.Tag{Name: t.Name, Value: t.Value})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}

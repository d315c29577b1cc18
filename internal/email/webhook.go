package email

import (
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Headers Resend (via Svix) signs every webhook with.
const (
	HeaderSvixID        = "svix-id"
	HeaderSvixTimestamp = "svix-timestamp"
	HeaderSvixSignature = "svix-signature"
)

// WebhookVerifier checks that a raw body was signed by the provider.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// SvixVerifier verifies Svix signatures with a "whsec_" shared secret.
type SvixVerifier struct {
	wh *svix.Webhook
}

func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is empty")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

// Verify checks the signature and the timestamp tolerance.
func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	return v.wh.Verify(payload, headers)
}

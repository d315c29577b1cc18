package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/email"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// EventDelivered is the provider event type that confirms a reminder reached the inbox.
const EventDelivered = "email.delivered"

// NotificationConfirmer flips a threshold flag on one event.
type NotificationConfirmer interface {
	ConfirmNotification(ctx context.Context, eventID uuid.UUID, kind models.NotificationType) (bool, error)
}

// DeliveryService consumes provider delivery webhooks.
type DeliveryService struct {
	Verifier  email.WebhookVerifier
	Confirmer NotificationConfirmer
}

func NewDeliveryService(verifier email.WebhookVerifier, confirmer NotificationConfirmer) *DeliveryService {
	return &DeliveryService{Verifier: verifier, Confirmer: confirmer}
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		EmailID string          `json:"email_id"`
		Tags    json.RawMessage `json:"tags"`
	} `json:"data"`
}

// HandleWebhook verifies and applies one delivery callback.
//
// A bad signature or an undecodable body is a *PayloadError and changes nothing.
// Verified payloads of another type, or without recognizable tags, are accepted
// as no-ops. A failed flag update comes back as *DataAccessError.
func (s *DeliveryService) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	if err := s.Verifier.Verify(payload, headers); err != nil {
		return &PayloadError{Reason: "webhook verification failed", Err: err}
	}

	var p webhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return &PayloadError{Reason: "malformed webhook payload", Err: err}
	}

	log := logger.Log.WithFields(logrus.Fields{
		"webhook_type": p.Type,
		"email_id":     p.Data.EmailID,
	})

	if p.Type != EventDelivered {
		log.Debug("Ignoring webhook event")
		return nil
	}

	tags := parseTags(p.Data.Tags)
	eventID, err := uuid.Parse(tags[email.TagEventID])
	if err != nil {
		log.Debug("Delivered email carries no event tag")
		return nil
	}
	kind, ok := models.ParseNotificationType(tags[email.TagNotificationType])
	if !ok {
		log.WithField("notification_type", tags[email.TagNotificationType]).Debug("Unrecognized notification type")
		return nil
	}

	log = log.WithFields(logrus.Fields{"event_id": eventID, "notification_type": kind})
	changed, err := s.Confirmer.ConfirmNotification(ctx, eventID, kind)
	if err != nil {
		log.WithError(err).Error("Failed to record delivery")
		return err
	}
	if changed {
		log.Info("Reminder delivery confirmed")
	} else {
		log.Debug("Reminder delivery already confirmed")
	}
	return nil
}

// parseTags accepts tags as an object ({"eventId": "..."}) or as a list of
// {"name","value"} pairs. Anything else yields no tags.
func parseTags(raw json.RawMessage) map[string]string {
	tags := map[string]string{}
	if len(raw) == 0 {
		return tags
	}
	if err := json.Unmarshal(raw, &tags); err == nil {
		return tags
	}

	var list []email.Tag
	if err := json.Unmarshal(raw, &list); err != nil {
		return map[string]string{}
	}
	tags = make(map[string]string, len(list))
	for _, t := range list {
		tags[t.Name] = t.Value
	}
	return tags
}

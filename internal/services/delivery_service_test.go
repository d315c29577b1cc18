package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/email"
	"github.com/justsurfingit/jobtrack/internal/models"
	svix "github.com/svix/svix-webhooks/go"
)

type fakeVerifier struct{ err error }

func (f fakeVerifier) Verify(payload []byte, headers http.Header) error { return f.err }

type confirmCall struct {
	id   uuid.UUID
	kind models.NotificationType
}

type fakeConfirmer struct {
	calls []confirmCall
	err   error
}

func (f *fakeConfirmer) ConfirmNotification(ctx context.Context, id uuid.UUID, kind models.NotificationType) (bool, error) {
	f.calls = append(f.calls, confirmCall{id, kind})
	return f.err == nil, f.err
}

func TestDeliveryService_HandleWebhook(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name        string
		payload     string
		verifyErr   error
		confirmErr  error
		wantPayload bool
		wantDB      bool
		wantCall    *confirmCall
	}{
		{
			name:     "delivered d3 with object tags",
			payload:  `{"type":"email.delivered","data":{"email_id":"e1","tags":{"eventId":"` + id.String() + `","notificationType":"d3"}}}`,
			wantCall: &confirmCall{id, models.NotificationD3},
		},
		{
			name:     "delivered d1 with list tags",
			payload:  `{"type":"email.delivered","data":{"tags":[{"name":"eventId","value":"` + id.String() + `"},{"name":"notificationType","value":"d1"}]}}`,
			wantCall: &confirmCall{id, models.NotificationD1},
		},
		{
			name:        "bad signature",
			payload:     `{"type":"email.delivered","data":{"tags":{"eventId":"` + id.String() + `","notificationType":"d3"}}}`,
			verifyErr:   errors.New("no matching signature found"),
			wantPayload: true,
		},
		{
			name:        "verified but not json",
			payload:     `not json`,
			wantPayload: true,
		},
		{
			name:    "other event type",
			payload: `{"type":"email.bounced","data":{"tags":{"eventId":"` + id.String() + `","notificationType":"d3"}}}`,
		},
		{
			name:    "no tags",
			payload: `{"type":"email.delivered","data":{"email_id":"e1"}}`,
		},
		{
			name:    "unknown notification type",
			payload: `{"type":"email.delivered","data":{"tags":{"eventId":"` + id.String() + `","notificationType":"d7"}}}`,
		},
		{
			name:    "event id is not a uuid",
			payload: `{"type":"email.delivered","data":{"tags":{"eventId":"abc","notificationType":"d3"}}}`,
		},
		{
			name:    "tags of unexpected shape",
			payload: `{"type":"email.delivered","data":{"tags":42}}`,
		},
		{
			name:       "store failure",
			payload:    `{"type":"email.delivered","data":{"tags":{"eventId":"` + id.String() + `","notificationType":"d3"}}}`,
			confirmErr: &DataAccessError{Op: "confirm d3", Err: errors.New("connection reset")},
			wantDB:     true,
			wantCall:   &confirmCall{id, models.NotificationD3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmer := &fakeConfirmer{err: tt.confirmErr}
			svc := NewDeliveryService(fakeVerifier{err: tt.verifyErr}, confirmer)

			err := svc.HandleWebhook(context.Background(), []byte(tt.payload), http.Header{})

			var pe *PayloadError
			if got := errors.As(err, &pe); got != tt.wantPayload {
				t.Errorf("PayloadError = %v (err %v), want %v", got, err, tt.wantPayload)
			}
			var dae *DataAccessError
			if got := errors.As(err, &dae); got != tt.wantDB {
				t.Errorf("DataAccessError = %v (err %v), want %v", got, err, tt.wantDB)
			}
			if !tt.wantPayload && !tt.wantDB && err != nil {
				t.Errorf("HandleWebhook() error = %v, want nil", err)
			}

			switch {
			case tt.wantCall == nil && len(confirmer.calls) != 0:
				t.Errorf("unexpected confirm calls: %v", confirmer.calls)
			case tt.wantCall != nil && (len(confirmer.calls) != 1 || confirmer.calls[0] != *tt.wantCall):
				t.Errorf("confirm calls = %v, want [%v]", confirmer.calls, *tt.wantCall)
			}
		})
	}
}

// Selection, dispatch and confirmation of one event with the real Svix signer
// and a mocked store: the flag is set once, and a redelivered webhook is a no-op.
func TestReminderPipeline_EndToEnd(t *testing.T) {
	const secret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"
	db, mock := newMockDB(t)
	store := &NotificationService{DB: db, Now: fixed}

	eventID, appID := uuid.New(), uuid.New()
	d3Start, d3End := NotificationWindow(jan1, 3)
	d1Start, d1End := NotificationWindow(jan1, 1)

	mock.ExpectQuery(regexpFor(selectTargets, "notified_d3")).
		WithArgs(false, d3Start, d3End).
		WillReturnRows(sqlmock.NewRows(target).
			AddRow(eventID.String(), appID.String(), "deadline", d3Start.Add(9*time.Hour), "Acme", "Engineer", "me@example.com"))
	mock.ExpectQuery(regexpFor(selectTargets, "notified_d1")).
		WithArgs(false, d1Start, d1End).
		WillReturnRows(sqlmock.NewRows(target))

	sender := &fakeSender{}
	reminders := NewReminderService(store, NewNotificationDispatcher(sender, DispatchOptions{Concurrency: 2}))

	report, err := reminders.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Processed != (ProcessedCounts{D3: 1}) || len(sender.sent) != 1 {
		t.Fatalf("report = %+v, sent = %d", report, len(sender.sent))
	}
	msg := sender.sent[0]

	// The provider echoes the tags back in its delivery webhook.
	tags := map[string]string{}
	for _, tag := range msg.Tags {
		tags[tag.Name] = tag.Value
	}
	payload := []byte(`{"type":"email.delivered","data":{"email_id":"msg-1","tags":{"eventId":"` +
		tags[email.TagEventID] + `","notificationType":"` + tags[email.TagNotificationType] + `"}}}`)

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		t.Fatalf("NewWebhook() error = %v", err)
	}
	now := time.Now()
	sig, err := wh.Sign("msg_1", now, payload)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	headers := http.Header{}
	headers.Set(email.HeaderSvixID, "msg_1")
	headers.Set(email.HeaderSvixTimestamp, strconv.FormatInt(now.Unix(), 10))
	headers.Set(email.HeaderSvixSignature, sig)

	verifier, err := email.NewSvixVerifier(secret)
	if err != nil {
		t.Fatalf("NewSvixVerifier() error = %v", err)
	}
	delivery := NewDeliveryService(verifier, store)

	expectConfirm(mock, "notified_d3", eventID).WillReturnResult(sqlmock.NewResult(0, 1))
	expectConfirm(mock, "notified_d3", eventID).WillReturnResult(sqlmock.NewResult(0, 0))

	for i := 0; i < 2; i++ {
		if err := delivery.HandleWebhook(context.Background(), payload, headers); err != nil {
			t.Fatalf("HandleWebhook() #%d error = %v", i+1, err)
		}
	}

	// Tampered body with the original headers changes nothing.
	tampered := []byte(string(payload[:len(payload)-2]) + ` }}`)
	var pe *PayloadError
	if err := delivery.HandleWebhook(context.Background(), tampered, headers); !errors.As(err, &pe) {
		t.Errorf("tampered HandleWebhook() error = %v, want *PayloadError", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Mock expectations were not met: %v", err)
	}
}

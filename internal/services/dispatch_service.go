package services

import (
	"context"
	"time"

	"github.com/justsurfingit/jobtrack/internal/email"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ProcessedCounts is the number of targets considered per threshold in one run.
type ProcessedCounts struct {
	D3 int `json:"d3"`
	D1 int `json:"d1"`
}

// DispatchReport summarizes one batch. Sent counts provider-accepted sends, not deliveries.
type DispatchReport struct {
	Processed ProcessedCounts
	Sent      int
	Failed    []*SendError
}

type DispatchOptions struct {
	SiteURL     string
	Location    *time.Location
	Concurrency int
	// RatePerSecond <= 0 disables rate limiting.
	RatePerSecond float64
}

// NotificationDispatcher sends one reminder per target. It never touches the
// notification flags; those move only when the provider confirms delivery.
type NotificationDispatcher struct {
	Sender      email.Sender
	SiteURL     string
	Location    *time.Location
	Concurrency int
	Limiter     *rate.Limiter
}

func NewNotificationDispatcher(sender email.Sender, opts DispatchOptions) *NotificationDispatcher {
	d := &NotificationDispatcher{
		Sender:      sender,
		SiteURL:     opts.SiteURL,
		Location:    opts.Location,
		Concurrency: opts.Concurrency,
	}
	if opts.RatePerSecond > 0 {
		d.Limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return d
}

type dispatchJob struct {
	target NotificationTarget
	kind   models.NotificationType
}

// Dispatch sends every target of both thresholds concurrently and waits for all of
// them. A failed send is recorded in the report and never stops the others.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, d3, d1 []NotificationTarget) DispatchReport {
	jobs := make([]dispatchJob, 0, len(d3)+len(d1))
	for _, t := range d3 {
		jobs = append(jobs, dispatchJob{target: t, kind: models.NotificationD3})
	}
	for _, t := range d1 {
		jobs = append(jobs, dispatchJob{target: t, kind: models.NotificationD1})
	}

	// Plain Group, not WithContext: one failure must not cancel the rest.
	var g errgroup.Group
	if d.Concurrency > 0 {
		g.SetLimit(d.Concurrency)
	}
	outcomes := make([]error, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			outcomes[i] = d.send(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	report := DispatchReport{Processed: ProcessedCounts{D3: len(d3), D1: len(d1)}}
	for i, err := range outcomes {
		if err == nil {
			report.Sent++
			continue
		}
		sendErr, ok := err.(*SendError)
		if !ok {
			sendErr = &SendError{EventID: jobs[i].target.EventID, Type: jobs[i].kind, Err: err}
		}
		report.Failed = append(report.Failed, sendErr)
	}
	return report
}

func (d *NotificationDispatcher) send(ctx context.Context, job dispatchJob) error {
	t := job.target
	log := logger.Log.WithFields(logrus.Fields{
		"event_id":          t.EventID,
		"notification_type": job.kind,
	})
	fail := func(err error) error {
		log.WithError(err).Warn("Reminder send failed")
		return &SendError{EventID: t.EventID, Type: job.kind, Err: err}
	}

	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx); err != nil {
			return fail(err)
		}
	}

	reminder := email.Reminder{
		CompanyName:   t.CompanyName,
		Position:      t.Position,
		DaysBefore:    job.kind.DaysBefore(),
		ScheduledAt:   t.ScheduledAt,
		ApplicationID: t.ApplicationID.String(),
		SiteURL:       d.SiteURL,
		Location:      d.Location,
	}
	html, err := reminder.HTML()
	if err != nil {
		return fail(err)
	}

	msgID, err := d.Sender.Send(ctx, &email.Message{
		To:      t.OwnerEmail,
		Subject: reminder.Subject(),
		HTML:    html,
		Tags: []email.Tag{
			{Name: email.TagEventID, Value: t.EventID.String()},
			{Name: email.TagNotificationType, Value: string(job.kind)},
		},
	})
	if err != nil {
		return fail(err)
	}

	log.WithField("message_id", msgID).Info("Reminder sent")
	return nil
}

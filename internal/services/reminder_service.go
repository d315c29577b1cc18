package services

import (
	"context"

	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// TargetSelector finds the events due a reminder for one threshold.
type TargetSelector interface {
	FindEventsForNotification(ctx context.Context, kind models.NotificationType) ([]NotificationTarget, error)
}

// Dispatcher sends one batch of reminders.
type Dispatcher interface {
	Dispatch(ctx context.Context, d3, d1 []NotificationTarget) DispatchReport
}

// ReminderService runs one trigger invocation: select both thresholds, then send.
type ReminderService struct {
	Selector   TargetSelector
	Dispatcher Dispatcher
}

func NewReminderService(selector TargetSelector, dispatcher Dispatcher) *ReminderService {
	return &ReminderService{Selector: selector, Dispatcher: dispatcher}
}

// Run selects D-3 and D-1 targets and dispatches them. Any selection failure aborts the
// run before a single email goes out; send failures only show up in the report.
func (s *ReminderService) Run(ctx context.Context) (DispatchReport, error) {
	batches := make(map[models.NotificationType][]NotificationTarget, len(models.NotificationTypes))
	for _, kind := range models.NotificationTypes {
		targets, err := s.Selector.FindEventsForNotification(ctx, kind)
		if err != nil {
			return DispatchReport{}, err
		}
		batches[kind] = targets
	}

	report := s.Dispatcher.Dispatch(ctx, batches[models.NotificationD3], batches[models.NotificationD1])

	logger.Log.WithFields(logrus.Fields{
		"d3":     report.Processed.D3,
		"d1":     report.Processed.D1,
		"sent":   report.Sent,
		"failed": len(report.Failed),
	}).Info("Reminder run finished")
	return report, nil
}

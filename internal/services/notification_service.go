package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationTarget is an event joined with its application and the owner's address.
// It is rebuilt on every selection and never cached.
type NotificationTarget struct {
	EventID       uuid.UUID `gorm:"column:id"`
	ApplicationID uuid.UUID `gorm:"column:application_id"`
	EventType     string    `gorm:"column:event_type"`
	ScheduledAt   time.Time `gorm:"column:scheduled_at"`
	CompanyName   string    `gorm:"column:company_name"`
	Position      string    `gorm:"column:position"`
	OwnerEmail    string    `gorm:"column:owner_email"`
}

// NotificationService reads reminder candidates and records confirmed deliveries
// on the events table.
type NotificationService struct {
	DB *gorm.DB
	// Now is swapped in tests.
	Now func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, Now: time.Now}
}

// NotificationWindow returns the UTC calendar day that lies daysBefore days after now,
// as the inclusive range [00:00:00Z, 23:59:59Z].
func NotificationWindow(now time.Time, daysBefore int) (start, end time.Time) {
	d := now.UTC().AddDate(0, 0, daysBefore)
	start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Second)
	return start, end
}

// FindEventsForNotification returns every event in the threshold's window whose flag for
// that threshold is still false. No rows is not an error.
func (s *NotificationService) FindEventsForNotification(ctx context.Context, kind models.NotificationType) ([]NotificationTarget, error) {
	start, end := NotificationWindow(s.Now(), kind.DaysBefore())

	var targets []NotificationTarget
	err := s.DB.WithContext(ctx).
		Table("events").
		Select("events.id, events.application_id, events.event_type, events.scheduled_at, " +
			"applications.company_name, applications.position, users.email AS owner_email").
		Joins("JOIN applications ON applications.id = events.application_id").
		Joins("JOIN users ON users.id = applications.user_id").
		Where("events."+kind.Column()+" = ?", false).
		Where("events.scheduled_at >= ? AND events.scheduled_at <= ?", start, end).
		Order("events.scheduled_at").
		Scan(&targets).Error
	if err != nil {
		return nil, dataAccess("select "+string(kind)+" targets", err)
	}

	for _, t := range targets {
		if t.EventID == uuid.Nil || t.OwnerEmail == "" {
			return nil, dataAccess("select "+string(kind)+" targets",
				fmt.Errorf("malformed row for event %q", t.EventID))
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"notification_type": kind,
		"window_start":      start.Format(time.RFC3339),
		"count":             len(targets),
	}).Debug("Selected reminder targets")

	if targets == nil {
		targets = []NotificationTarget{}
	}
	return targets, nil
}

// ConfirmNotification sets the threshold flag of one event. The update only matches
// rows where the flag is still false, so repeats are no-ops. It reports whether this
// call flipped the flag.
func (s *NotificationService) ConfirmNotification(ctx context.Context, eventID uuid.UUID, kind models.NotificationType) (bool, error) {
	col := kind.Column()
	res := s.DB.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND "+col+" = ?", eventID, false).
		UpdateColumn(col, true)
	if res.Error != nil {
		return false, dataAccess("confirm "+string(kind), res.Error)
	}
	return res.RowsAffected > 0, nil
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/dtos"
	"github.com/justsurfingit/jobtrack/internal/models"
	"gorm.io/gorm"
)

// EventService manages events. Ownership is checked through the parent application.
type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

// ListByApplication returns an owned application's events in schedule order.
func (s *EventService) ListByApplication(ctx context.Context, appID, userID uuid.UUID) ([]models.Event, error) {
	if err := assertApplicationOwnership(s.DB.WithContext(ctx), appID, userID); err != nil {
		return nil, err
	}
	events := []models.Event{}
	err := s.DB.WithContext(ctx).
		Where("application_id = ?", appID).
		Order("scheduled_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, dataAccess("list events", err)
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, appID, userID uuid.UUID, req *dtos.EventCreateRequest) (*models.Event, error) {
	if err := assertApplicationOwnership(s.DB.WithContext(ctx), appID, userID); err != nil {
		return nil, err
	}
	event := &models.Event{
		ApplicationID:  appID,
		EventType:      req.EventType,
		ScheduledAt:    req.ScheduledAt.UTC(),
		Location:       req.Location,
		InterviewRound: req.InterviewRound,
	}
	if err := s.DB.WithContext(ctx).Create(event).Error; err != nil {
		return nil, dataAccess("create event", err)
	}
	return event, nil
}

// Update changes the given fields. Notification flags are not touched: a reminder that
// was already delivered stays delivered even if the event moves.
func (s *EventService) Update(ctx context.Context, eventID, userID uuid.UUID, req *dtos.EventUpdateRequest) (*models.Event, error) {
	event, err := s.ownedEvent(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.EventType != nil {
		fields["event_type"] = *req.EventType
	}
	if req.ScheduledAt != nil {
		fields["scheduled_at"] = req.ScheduledAt.UTC()
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.InterviewRound != nil {
		fields["interview_round"] = *req.InterviewRound
	}

	if err := s.DB.WithContext(ctx).Model(event).Updates(fields).Error; err != nil {
		return nil, dataAccess("update event", err)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, eventID, userID uuid.UUID) error {
	event, err := s.ownedEvent(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(event).Error; err != nil {
		return dataAccess("delete event", err)
	}
	return nil
}

// assertApplicationOwnership is ErrNotFound unless appID belongs to userID.
func assertApplicationOwnership(db *gorm.DB, appID, userID uuid.UUID) error {
	var n int64
	err := db.Model(&models.Application{}).
		Where("id = ? AND user_id = ?", appID, userID).
		Count(&n).Error
	if err != nil {
		return dataAccess("check application ownership", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ownedEvent loads an event only if its application belongs to userID.
func (s *EventService) ownedEvent(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.DB.WithContext(ctx).
		Joins("JOIN applications ON applications.id = events.application_id").
		Where("events.id = ? AND applications.user_id = ?", eventID, userID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dataAccess("get event", err)
	}
	return &event, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/dtos"
	"github.com/justsurfingit/jobtrack/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ObjectRemover deletes stored document bodies after their rows are gone.
type ObjectRemover interface {
	RemoveObjects(ctx context.Context, keys []string)
}

type ApplicationService struct {
	DB *gorm.DB
	// Objects is optional; without it document bodies outlive their application.
	Objects ObjectRemover
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{
		DB: db,
	}
}

// List returns the user's applications, newest first.
func (s *ApplicationService) List(ctx context.Context, userID uuid.UUID, q dtos.ApplicationListQuery) ([]models.Application, error) {
	tx := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if q.Stage != "" {
		tx = tx.Where("current_stage = ?", q.Stage)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("company_name ILIKE ? OR position ILIKE ?", like, like)
	}

	apps := []models.Application{}
	if err := tx.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, dataAccess("list applications", err)
	}
	return apps, nil
}

// Get loads one owned application with its events in schedule order.
func (s *ApplicationService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := s.DB.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("scheduled_at ASC") }).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&app).Error
	if err != nil {
		return nil, notFoundOr("get application", err)
	}
	return &app, nil
}

// Create stores a new application. A deadline in the request becomes a "deadline" event.
func (s *ApplicationService) Create(ctx context.Context, userID uuid.UUID, req *dtos.ApplicationCreateRequest) (*models.Application, error) {
	app := &models.Application{
		UserID:      userID,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Position:    strings.TrimSpace(req.Position),
		CareerType:  req.CareerType,
		JobURL:      req.JobURL,
		Source:      req.Source,
		MeritTags:   pq.StringArray(req.MeritTags),
		CompanyMemo: req.CompanyMemo,
		CoverLetter: req.CoverLetter,
	}
	if req.CurrentStage != nil {
		app.CurrentStage = *req.CurrentStage
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		if req.Deadline == nil {
			return nil
		}
		deadline := models.Event{
			ApplicationID: app.ID,
			EventType:     models.EventDeadline,
			ScheduledAt:   req.Deadline.UTC(),
		}
		if err := tx.Create(&deadline).Error; err != nil {
			return err
		}
		app.Events = []models.Event{deadline}
		return nil
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		// The gateway vouched for a user id that was never registered.
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, dataAccess("create application", err)
	}
	return app, nil
}

// Update applies a partial update. When the request names a deadline, the application's
// deadline event is updated, created, or removed (explicit null) to match.
func (s *ApplicationService) Update(ctx context.Context, id, userID uuid.UUID, req *dtos.ApplicationUpdateRequest) (*models.Application, error) {
	var app models.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
			return err
		}

		if fields := applicationUpdates(req); len(fields) > 0 {
			if err := tx.Model(&app).Updates(fields).Error; err != nil {
				return err
			}
		}

		if req.Deadline.Set {
			return syncDeadline(tx, app.ID, req.Deadline.Value)
		}
		return nil
	})
	if err != nil {
		return nil, notFoundOr("update application", err)
	}
	return &app, nil
}

// Delete removes an owned application with its events and documents, then the
// stored document bodies.
func (s *ApplicationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	var keys []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).Where("application_id = ?", id).Pluck("storage_path", &keys).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Application{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("application_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Where("application_id = ?", id).Delete(&models.Event{}).Error
	})
	if err != nil {
		return notFoundOr("delete application", err)
	}
	if s.Objects != nil && len(keys) > 0 {
		s.Objects.RemoveObjects(ctx, keys)
	}
	return nil
}

// Count is used by the database health check.
func (s *ApplicationService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Application{}).Count(&n).Error; err != nil {
		return 0, dataAccess("count applications", err)
	}
	return n, nil
}

func applicationUpdates(req *dtos.ApplicationUpdateRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if req.CompanyName != nil {
		fields["company_name"] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Position != nil {
		fields["position"] = strings.TrimSpace(*req.Position)
	}
	if req.CareerType != nil {
		fields["career_type"] = *req.CareerType
	}
	if req.JobURL != nil {
		fields["job_url"] = *req.JobURL
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.MeritTags != nil {
		fields["merit_tags"] = pq.StringArray(req.MeritTags)
	}
	if req.CurrentStage != nil {
		fields["current_stage"] = *req.CurrentStage
	}
	if req.CompanyMemo != nil {
		fields["company_memo"] = *req.CompanyMemo
	}
	if req.CoverLetter != nil {
		fields["cover_letter"] = *req.CoverLetter
	}
	return fields
}

func syncDeadline(tx *gorm.DB, appID uuid.UUID, deadline *time.Time) error {
	var existing models.Event
	err := tx.Where("application_id = ? AND event_type = ?", appID, models.EventDeadline).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	switch {
	case deadline != nil && found:
		return tx.Model(&existing).Update("scheduled_at", deadline.UTC()).Error
	case deadline != nil:
		return tx.Create(&models.Event{
			ApplicationID: appID,
			EventType:     models.EventDeadline,
			ScheduledAt:   deadline.UTC(),
		}).Error
	case found:
		return tx.Delete(&existing).Error
	}
	return nil
}

func notFoundOr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return dataAccess(op, err)
}

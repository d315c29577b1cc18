package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `json:"-"`

	CompanyName  string         `gorm:"not null" json:"company_name"`
	Position     string         `gorm:"not null" json:"position"`
	CareerType   string         `gorm:"not null" json:"career_type"`
	JobURL       *string        `json:"job_url"`
	Source       *string        `json:"source"`
	MeritTags    pq.StringArray `gorm:"type:text[]" json:"merit_tags"`
	CurrentStage string         `gorm:"not null;default:'interest'" json:"current_stage"`
	CompanyMemo  *string        `gorm:"type:text" json:"company_memo"`
	CoverLetter  *string        `gorm:"type:text" json:"cover_letter"`

	// Events is only filled when preloaded.
	Events    []Event    `gorm:"constraint:OnDelete:CASCADE" json:"events,omitempty"`
	Documents []Document `gorm:"constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// Event is a scheduled occurrence of an application. NotifiedD3 and NotifiedD1 record
// provider-confirmed reminder deliveries; they only ever move from false to true.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID  uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	EventType      string    `gorm:"not null" json:"event_type"`
	ScheduledAt    time.Time `gorm:"not null;index" json:"scheduled_at"`
	Location       *string   `json:"location"`
	InterviewRound *int      `json:"interview_round"`

	NotifiedD3 bool `gorm:"column:notified_d3;not null;default:false" json:"notified_d3"`
	NotifiedD1 bool `gorm:"column:notified_d1;not null;default:false" json:"notified_d1"`
}

// Document is an uploaded PDF attached to an application. StoragePath is the
// object key in the document store; FileURL is what clients open.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	FileName      string    `gorm:"not null" json:"file_name"`
	FileSize      int64     `gorm:"not null" json:"file_size"`
	FileURL       string    `gorm:"not null" json:"file_url"`
	StoragePath   string    `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CurrentStage == "" {
		a.CurrentStage = StageInterest
	}
	return nil
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

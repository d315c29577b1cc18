package dtos

import "time"

type EventCreateRequest struct {
	EventType      string    `json:"event_type" binding:"required,event_type"`
	ScheduledAt    time.Time `json:"scheduled_at" binding:"required"`
	Location       *string   `json:"location"`
	InterviewRound *int      `json:"interview_round" binding:"omitempty,gt=0"`
}

type EventUpdateRequest struct {
	EventType      *string    `json:"event_type" binding:"omitempty,event_type"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
	Location       *string    `json:"location"`
	InterviewRound *int       `json:"interview_round" binding:"omitempty,gt=0"`
}

func (r *EventUpdateRequest) Empty() bool {
	return r.EventType == nil && r.ScheduledAt == nil && r.Location == nil && r.InterviewRound == nil
}

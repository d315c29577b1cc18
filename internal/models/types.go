package models

import "slices"

const (
	StageInterest     = "interest"
	StageApplied      = "applied"
	StageDocumentPass = "document_pass"
	StageAssignment   = "assignment"
	StageInterview    = "interview"
	StageFinalPass    = "final_pass"
	StageRejected     = "rejected"
)

// StageOrder is the board column order.
var StageOrder = []string{
	StageInterest,
	StageApplied,
	StageDocumentPass,
	StageAssignment,
	StageInterview,
	StageFinalPass,
	StageRejected,
}

var CareerTypes = []string{"new", "experienced", "any"}

var Sources = []string{"saramin", "jobkorea", "company", "linkedin", "etc"}

const (
	EventDeadline   = "deadline"
	EventCodingTest = "coding_test"
	EventInterview  = "interview"
	EventResult     = "result"
	EventEtc        = "etc"
)

var EventTypes = []string{EventDeadline, EventCodingTest, EventInterview, EventResult, EventEtc}

// NotificationType names a reminder threshold. Its string form is the value carried in
// the "notificationType" email tag.
type NotificationType string

const (
	NotificationD3 NotificationType = "d3"
	NotificationD1 NotificationType = "d1"
)

// NotificationTypes lists the thresholds in the order a trigger run processes them.
var NotificationTypes = []NotificationType{NotificationD3, NotificationD1}

// ParseNotificationType accepts only the recognized tag values.
func ParseNotificationType(s string) (NotificationType, bool) {
	switch NotificationType(s) {
	case NotificationD3, NotificationD1:
		return NotificationType(s), true
	}
	return "", false
}

// DaysBefore is the distance in days between the reminder and the event.
func (t NotificationType) DaysBefore() int {
	if t == NotificationD3 {
		return 3
	}
	return 1
}

// Column is the events column that records a confirmed delivery for this threshold.
func (t NotificationType) Column() string {
	if t == NotificationD3 {
		return "notified_d3"
	}
	return "notified_d1"
}

func IsStage(v string) bool      { return slices.Contains(StageOrder, v) }
func IsCareerType(v string) bool { return slices.Contains(CareerTypes, v) }
func IsSource(v string) bool     { return slices.Contains(Sources, v) }
func IsEventType(v string) bool  { return slices.Contains(EventTypes, v) }

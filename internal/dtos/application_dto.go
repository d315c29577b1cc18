package dtos

import (
	"bytes"
	"encoding/json"
	"time"
)

type ApplicationListQuery struct {
	Stage  string `form:"stage" binding:"omitempty,stage"`
	Search string `form:"search"`
}

type ApplicationCreateRequest struct {
	CompanyName string `json:"company_name" binding:"required,notblank"`
	Position    string `json:"position" binding:"required,notblank"`
	CareerType  string `json:"career_type" binding:"required,career_type"`

	// Optional Fields
	JobURL       *string    `json:"job_url" binding:"omitempty,url"`
	Source       *string    `json:"source" binding:"omitempty,source"`
	MeritTags    []string   `json:"merit_tags" binding:"omitempty,max=10"`
	CurrentStage *string    `json:"current_stage" binding:"omitempty,stage"`
	CompanyMemo  *string    `json:"company_memo"`
	CoverLetter  *string    `json:"cover_letter"`
	Deadline     *time.Time `json:"deadline"` // Creates a "deadline" event when set
}

// ApplicationUpdateRequest is a partial update; nil fields are left untouched.
type ApplicationUpdateRequest struct {
	CompanyName  *string  `json:"company_name" binding:"omitempty,notblank"`
	Position     *string  `json:"position" binding:"omitempty,notblank"`
	CareerType   *string  `json:"career_type" binding:"omitempty,career_type"`
	JobURL       *string  `json:"job_url" binding:"omitempty,url"`
	Source       *string  `json:"source" binding:"omitempty,source"`
	MeritTags    []string `json:"merit_tags" binding:"omitempty,max=10"`
	CurrentStage *string  `json:"current_stage" binding:"omitempty,stage"`
	CompanyMemo  *string  `json:"company_memo"`
	CoverLetter  *string  `json:"cover_letter"`

	// Deadline distinguishes "absent" from an explicit null, which removes the deadline event.
	Deadline OptionalTime `json:"deadline"`
}

// Empty reports whether the request carries no field at all.
func (r *ApplicationUpdateRequest) Empty() bool {
	return r.CompanyName == nil && r.Position == nil && r.CareerType == nil &&
		r.JobURL == nil && r.Source == nil && r.MeritTags == nil &&
		r.CurrentStage == nil && r.CompanyMemo == nil && r.CoverLetter == nil &&
		!r.Deadline.Set
}

// OptionalTime records whether a JSON field was present, and its value (nil for null).
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

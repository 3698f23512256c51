package model

import (
	"strings"
	"time"
)

// Task is a single filing obligation.
type Task struct {
	ID          string    `json:"id"`
	FormName    string    `json:"formName"`
	FormNumber  string    `json:"formNumber"`
	Description string    `json:"description,omitempty"`
	Deadline    Date      `json:"deadline"`
	Frequency   Frequency `json:"frequency"`
	Status      Status    `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ref is the short human reference used in messages and clipboard copies: "1701 - Annual Income Tax Return".
func (t Task) Ref() string {
	return strings.TrimSpace(t.FormNumber) + " - " + strings.TrimSpace(t.FormName)
}

// Fields are the user-editable attributes of a task (everything except id and timestamps).
type Fields struct {
	FormName    string    `json:"formName"`
	FormNumber  string    `json:"formNumber"`
	Description string    `json:"description,omitempty"`
	Deadline    Date      `json:"deadline"`
	Frequency   Frequency `json:"frequency"`
	Status      Status    `json:"status"`
}

// FieldsOf returns the editable attributes of t.
func FieldsOf(t Task) Fields {
	return Fields{
		FormName:    t.FormName,
		FormNumber:  t.FormNumber,
		Description: t.Description,
		Deadline:    t.Deadline,
		Frequency:   t.Frequency,
		Status:      t.Status,
	}
}

// Normalize trims text and fills the form defaults (monthly, not started).
func (f Fields) Normalize() Fields {
	f.FormName = strings.TrimSpace(f.FormName)
	f.FormNumber = strings.TrimSpace(f.FormNumber)
	f.Description = strings.TrimSpace(f.Description)
	if f.Frequency == "" {
		f.Frequency = FrequencyMonthly
	}
	if f.Status == "" {
		f.Status = StatusNotStarted
	}
	return f
}

func (f Fields) Validate() error {
	if strings.TrimSpace(f.FormNumber) == "" {
		return errRequired("formNumber")
	}
	if strings.TrimSpace(f.FormName) == "" {
		return errRequired("formName")
	}
	if f.Deadline.IsZero() {
		return errRequired("deadline")
	}
	if !f.Frequency.Valid() {
		return &ValidationError{Field: "frequency", Reason: "invalid frequency " + quote(string(f.Frequency))}
	}
	if !f.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "invalid status " + quote(string(f.Status))}
	}
	return nil
}

// Patch is a partial update. A nil field is left untouched.
type Patch struct {
	FormName    *string    `json:"formName,omitempty"`
	FormNumber  *string    `json:"formNumber,omitempty"`
	Description *string    `json:"description,omitempty"`
	Deadline    *Date      `json:"deadline,omitempty"`
	Frequency   *Frequency `json:"frequency,omitempty"`
	Status      *Status    `json:"status,omitempty"`
}

// PatchFromFields builds a patch that overwrites every editable attribute (the edit form submits all of them).
func PatchFromFields(f Fields) Patch {
	return Patch{
		FormName:    &f.FormName,
		FormNumber:  &f.FormNumber,
		Description: &f.Description,
		Deadline:    &f.Deadline,
		Frequency:   &f.Frequency,
		Status:      &f.Status,
	}
}

func (p Patch) IsEmpty() bool {
	return p.FormName == nil &&
		p.FormNumber == nil &&
		p.Description == nil &&
		p.Deadline == nil &&
		p.Frequency == nil &&
		p.Status == nil
}

func (p Patch) Validate() error {
	if p.FormNumber != nil && strings.TrimSpace(*p.FormNumber) == "" {
		return errRequired("formNumber")
	}
	if p.FormName != nil && strings.TrimSpace(*p.FormName) == "" {
		return errRequired("formName")
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return errRequired("deadline")
	}
	if p.Frequency != nil && !p.Frequency.Valid() {
		return &ValidationError{Field: "frequency", Reason: "invalid frequency " + quote(string(*p.Frequency))}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "invalid status " + quote(string(*p.Status))}
	}
	return nil
}

// Apply merges the present fields of p into t. It does not touch timestamps.
func (p Patch) Apply(t *Task) {
	if p.FormName != nil {
		t.FormName = strings.TrimSpace(*p.FormName)
	}
	if p.FormNumber != nil {
		t.FormNumber = strings.TrimSpace(*p.FormNumber)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Frequency != nil {
		t.Frequency = *p.Frequency
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

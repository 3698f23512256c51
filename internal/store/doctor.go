package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"formbuddy/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Key     string           `json:"key,omitempty"`
	TaskID  string           `json:"taskId,omitempty"`
	Index   *int             `json:"index,omitempty"`
}

type DoctorReport struct {
	Key    string        `json:"key"`
	Tasks  int           `json:"tasks"`
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor inspects the persisted blob without loading or mutating the store.
// Corruption that Load would repair by reseeding shows up here as errors.
func (s *TaskStore) Doctor(ctx context.Context) DoctorReport {
	rep := DoctorReport{Key: s.key, Issues: []DoctorIssue{}}
	add := func(issue DoctorIssue) {
		issue.Key = s.key
		rep.Issues = append(rep.Issues, issue)
	}

	if _, ok, err := s.blobs.Get(ctx, s.key+".corrupt"); err == nil && ok {
		add(DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "corrupt_copy_present",
			Message: fmt.Sprintf("a previous corrupt blob was kept as %s.corrupt", s.key),
		})
	}

	raw, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		add(DoctorIssue{Level: DoctorIssueLevelError, Code: "read_failed", Message: err.Error()})
		return rep
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		add(DoctorIssue{Level: DoctorIssueLevelWarn, Code: "blob_missing", Message: "no tasks saved yet; defaults are seeded on next load"})
		return rep
	}

	// Decode loosely first so one bad record doesn't hide the others.
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		add(DoctorIssue{Level: DoctorIssueLevelError, Code: "malformed_json", Message: err.Error()})
		return rep
	}
	rep.Tasks = len(records)

	seen := map[string]int{}
	for i, rec := range records {
		idx := i
		var t model.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			add(DoctorIssue{Level: DoctorIssueLevelError, Code: "malformed_task", Message: err.Error(), Index: &idx})
			continue
		}
		id := strings.TrimSpace(t.ID)
		if id == "" {
			add(DoctorIssue{Level: DoctorIssueLevelError, Code: "missing_id", Message: "task has no id", Index: &idx})
		} else if prev, dup := seen[id]; dup {
			add(DoctorIssue{
				Level:   DoctorIssueLevelError,
				Code:    "duplicate_id",
				Message: fmt.Sprintf("id also used by task %d", prev),
				TaskID:  id,
				Index:   &idx,
			})
		} else {
			seen[id] = i
		}
		if t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
			add(DoctorIssue{Level: DoctorIssueLevelError, Code: "missing_timestamp", Message: "createdAt or updatedAt is missing", TaskID: id, Index: &idx})
		} else if t.UpdatedAt.Before(t.CreatedAt) {
			add(DoctorIssue{Level: DoctorIssueLevelError, Code: "timestamp_order", Message: "updatedAt is before createdAt", TaskID: id, Index: &idx})
		}
		if err := model.FieldsOf(t).Validate(); err != nil {
			add(DoctorIssue{Level: DoctorIssueLevelError, Code: "invalid_field", Message: err.Error(), TaskID: id, Index: &idx})
		}
	}
	return rep
}

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in sort order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted}
}

// ParseStatus accepts the canonical ids plus display labels and the short todo/doing/done aliases.
func ParseStatus(s string) (Status, error) {
	switch normalizeEnum(s) {
	case "not-started", "todo":
		return StatusNotStarted, nil
	case "in-progress", "doing":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "":
		return "", fmt.Errorf("invalid status: empty")
	default:
		return "", fmt.Errorf("invalid status: %q (expected not-started|in-progress|completed)", s)
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Rank gives the sort order: not-started < in-progress < completed.
func (s Status) Rank() int {
	switch s {
	case StatusNotStarted:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return 3
}

// Next cycles not-started -> in-progress -> completed -> not-started.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := Status(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid status: %q", raw)
	}
	*s = v
	return nil
}

type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

func Frequencies() []Frequency {
	return []Frequency{FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually}
}

func ParseFrequency(s string) (Frequency, error) {
	switch normalizeEnum(s) {
	case "monthly":
		return FrequencyMonthly, nil
	case "quarterly":
		return FrequencyQuarterly, nil
	case "annually", "annual", "yearly":
		return FrequencyAnnually, nil
	case "":
		return "", fmt.Errorf("invalid frequency: empty")
	default:
		return "", fmt.Errorf("invalid frequency: %q (expected monthly|quarterly|annually)", s)
	}
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return true
	}
	return false
}

func (f Frequency) Label() string {
	switch f {
	case FrequencyMonthly:
		return "Monthly"
	case FrequencyQuarterly:
		return "Quarterly"
	case FrequencyAnnually:
		return "Annually"
	}
	return string(f)
}

func (f *Frequency) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := Frequency(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid frequency: %q", raw)
	}
	*f = v
	return nil
}

// normalizeEnum lowercases and folds spaces/underscores to dashes ("In Progress" -> "in-progress").
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.Fields(s), "-")
}

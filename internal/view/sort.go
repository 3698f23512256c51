package view

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"formbuddy/internal/model"
)

type SortKey string

const (
	SortDeadline   SortKey = "deadline"
	SortFormNumber SortKey = "formNumber"
	SortStatus     SortKey = "status"
	SortCreatedAt  SortKey = "createdAt"
)

const DefaultSort = SortDeadline

func SortKeys() []SortKey {
	return []SortKey{SortDeadline, SortFormNumber, SortStatus, SortCreatedAt}
}

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deadline", "due":
		return SortDeadline, nil
	case "formnumber", "form-number", "form_number", "number":
		return SortFormNumber, nil
	case "status":
		return SortStatus, nil
	case "createdat", "created-at", "created_at", "created":
		return SortCreatedAt, nil
	default:
		return "", fmt.Errorf("invalid sort: %q (expected deadline|formNumber|status|createdAt)", s)
	}
}

func (k SortKey) Next() SortKey {
	all := SortKeys()
	for i, s := range all {
		if s == k {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultSort
}

func (k SortKey) Label() string {
	switch k {
	case SortDeadline:
		return "Deadline"
	case SortFormNumber:
		return "Form number"
	case SortStatus:
		return "Status"
	case SortCreatedAt:
		return "Newest first"
	}
	return string(k)
}

// sortTasks orders tasks in place. Ties keep their input order.
func sortTasks(tasks []model.Task, key SortKey) {
	switch key {
	case SortFormNumber:
		// Locale-aware but lexicographic: "10" sorts before "9". Collators keep internal buffers; one per call.
		col := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(tasks, func(i, j int) bool {
			return col.CompareString(tasks[i].FormNumber, tasks[j].FormNumber) < 0
		})
	case SortStatus:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Status.Rank() < tasks[j].Status.Rank()
		})
	case SortCreatedAt:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Deadline.Before(tasks[j].Deadline)
		})
	}
}

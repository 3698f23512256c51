// Package view derives what the CLI and TUI display from the task collection: filtering, ordering,
// summary counters and urgency. Nothing here mutates its input.
package view

import (
	"time"

	"formbuddy/internal/model"
)

// Apply returns the tasks that pass f, ordered by key. The input slice is left untouched.
func Apply(tasks []model.Task, f Filter, key SortKey) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sortTasks(out, key)
	return out
}

// Result is a filtered, ordered view plus the "Showing X of Y" counts.
type Result struct {
	Tasks []model.Task `json:"tasks"`
	Shown int          `json:"shown"`
	Total int          `json:"total"`
}

func Build(tasks []model.Task, f Filter, key SortKey) Result {
	out := Apply(tasks, f, key)
	return Result{Tasks: out, Shown: len(out), Total: len(tasks)}
}

// EmptyMessage is shown in place of an empty list.
func (r Result) EmptyMessage(f Filter) string {
	if r.Total == 0 || f.IsZero() {
		return "Get started by adding your first BIR form task."
	}
	return "Try adjusting your filters to see more tasks."
}

type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	NotStarted int `json:"notStarted"`
	Overdue    int `json:"overdue"`
}

// Aggregate counts over the whole collection, ignoring any filter.
func Aggregate(tasks []model.Task, now time.Time) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			st.Completed++
		case model.StatusInProgress:
			st.InProgress++
		case model.StatusNotStarted:
			st.NotStarted++
		}
		if IsOverdue(t, now) {
			st.Overdue++
		}
	}
	return st
}

// IsOverdue: the deadline date is before today's date (in now's location) and the task is not completed.
// A task due today is not overdue.
func IsOverdue(t model.Task, now time.Time) bool {
	return t.Status != model.StatusCompleted && DaysLeft(t, now) < 0
}

// DaysLeft is the number of calendar days from today to the deadline; negative once it has passed.
func DaysLeft(t model.Task, now time.Time) int {
	return t.Deadline.DaysUntil(now)
}

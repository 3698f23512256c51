package view

import (
	"fmt"
	"time"

	humanize "github.com/dustin/go-humanize"

	"formbuddy/internal/model"
)

type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyNormal  Urgency = "normal"
)

// Classify buckets a deadline by distance from today. Status is not considered, so a completed
// task past its deadline still reads as overdue here; use IsOverdue for the counter.
func Classify(t model.Task, now time.Time) Urgency {
	switch d := DaysLeft(t, now); {
	case d < 0:
		return UrgencyOverdue
	case d <= 7:
		return UrgencyUrgent
	case d <= 30:
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}

// DueLabel is the short suffix shown next to a deadline: "Due today", "3 days left", "Overdue".
func DueLabel(t model.Task, now time.Time) string {
	switch d := DaysLeft(t, now); {
	case d < 0:
		return "Overdue"
	case d == 0:
		return "Due today"
	case d == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", d)
	}
}

// RelativeDue renders the deadline relative to today, e.g. "2 weeks from now" or "3 days ago".
func RelativeDue(t model.Task, now time.Time) string {
	if DaysLeft(t, now) == 0 {
		return "today"
	}
	today := model.DateOf(now).Time(time.UTC)
	return humanize.RelTime(t.Deadline.Time(time.UTC), today, "ago", "from now")
}

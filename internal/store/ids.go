package store

import (
	"github.com/google/uuid"

	"formbuddy/internal/model"
)

// newTaskID returns a random UUID not already used in tasks.
func newTaskID(tasks []model.Task) string {
	for {
		id := uuid.NewString()
		if !idExists(tasks, id) {
			return id
		}
	}
}

func idExists(tasks []model.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IsTaskID reports whether s looks like a generated task id.
func IsTaskID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

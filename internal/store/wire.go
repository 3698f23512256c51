package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"formbuddy/internal/model"
)

// decodeTasks parses the persisted collection and rejects records Add could never have produced:
// missing or duplicate ids, invalid fields, and missing or reversed timestamps.
// An empty blob decodes to absent=true.
func decodeTasks(b []byte) (tasks []model.Task, absent bool, err error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, true, nil
	}
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, false, err
	}
	if err := checkTasks(tasks); err != nil {
		return nil, false, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, false, nil
}

func checkTasks(tasks []model.Task) error {
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("task %d: missing id", i)
		}
		if seen[id] {
			return fmt.Errorf("task %d: duplicate id %s", i, id)
		}
		seen[id] = true
		if err := model.FieldsOf(t).Validate(); err != nil {
			return fmt.Errorf("task %s: %w", id, err)
		}
		if t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
			return fmt.Errorf("task %s: missing timestamps", id)
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			return fmt.Errorf("task %s: updatedAt before createdAt", id)
		}
	}
	return nil
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

// Package publish exports tasks as a small Markdown site: index.md plus one page per task.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"formbuddy/internal/model"
)

type WriteOptions struct {
	Overwrite bool
	Now       time.Time
	// Total is the size of the unfiltered collection, for the "Showing X of Y" line.
	Total int
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTasks writes <toDir>/index.md and <toDir>/tasks/<id>.md for each task, in order.
// Existing files are left alone unless Overwrite is set.
func WriteTasks(tasks []model.Task, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}
	if opt.Total < len(tasks) {
		opt.Total = len(tasks)
	}

	tasksDir := filepath.Join(toDir, "tasks")
	if err := os.MkdirAll(tasksDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	ropt := RenderOptions{Now: opt.Now, Timestamps: true}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(tasks, opt.Total, ropt)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on first error.
	written := []string{indexPath}
	for _, t := range tasks {
		p := filepath.Join(tasksDir, t.ID+".md")
		if err := writeFile(p, []byte(RenderTaskMarkdown(t, ropt)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

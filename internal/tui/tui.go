// Package tui is the interactive task board: a filtered, sorted list with a detail pane,
// add/edit forms and single-key status changes. Every change is written through the store immediately.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"formbuddy/internal/model"
	"formbuddy/internal/store"
	"formbuddy/internal/view"
)

// Store is the subset of *store.TaskStore the TUI drives.
type Store interface {
	Load(ctx context.Context) (store.LoadResult, error)
	List() []model.Task
	Add(ctx context.Context, f model.Fields) (model.Task, error)
	Update(ctx context.Context, id string, p model.Patch) (model.Task, error)
	UpdateStatus(ctx context.Context, id string, s model.Status) (model.Task, error)
	Delete(ctx context.Context, id string) (model.Task, error)
}

type Options struct {
	Sort   view.SortKey
	Detail bool
	Now    func() time.Time
	Log    *zap.SugaredLogger
}

func Run(s Store, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(s, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

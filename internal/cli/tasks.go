package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"formbuddy/internal/model"
	"formbuddy/internal/view"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksSetStatusCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))

	return cmd
}

// fieldFlags are the editable task attributes shared by add and edit.
type fieldFlags struct {
	formNumber  string
	formName    string
	description string
	deadline    string
	frequency   string
	status      string
}

func (ff *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.formNumber, "form-number", "", "BIR form number (e.g. 1701)")
	cmd.Flags().StringVar(&ff.formName, "form-name", "", "Form name")
	cmd.Flags().StringVar(&ff.description, "description", "", "Free-text description (Markdown)")
	cmd.Flags().StringVar(&ff.deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.frequency, "frequency", "", "monthly|quarterly|annually")
	cmd.Flags().StringVar(&ff.status, "status", "", "not-started|in-progress|completed")
}

func (ff *fieldFlags) fields() (model.Fields, error) {
	f := model.Fields{
		FormNumber:  ff.formNumber,
		FormName:    ff.formName,
		Description: ff.description,
	}
	if strings.TrimSpace(ff.deadline) != "" {
		d, err := model.ParseDate(ff.deadline)
		if err != nil {
			return model.Fields{}, errFlag("deadline", err)
		}
		f.Deadline = d
	}
	if strings.TrimSpace(ff.frequency) != "" {
		fr, err := model.ParseFrequency(ff.frequency)
		if err != nil {
			return model.Fields{}, errFlag("frequency", err)
		}
		f.Frequency = fr
	}
	if strings.TrimSpace(ff.status) != "" {
		s, err := model.ParseStatus(ff.status)
		if err != nil {
			return model.Fields{}, errFlag("status", err)
		}
		f.Status = s
	}
	return f, nil
}

// patch builds a Patch from the flags the user actually passed.
func (ff *fieldFlags) patch(cmd *cobra.Command) (model.Patch, error) {
	var p model.Patch
	changed := cmd.Flags().Changed
	if changed("form-number") {
		p.FormNumber = &ff.formNumber
	}
	if changed("form-name") {
		p.FormName = &ff.formName
	}
	if changed("description") {
		p.Description = &ff.description
	}
	if changed("deadline") {
		d, err := model.ParseDate(ff.deadline)
		if err != nil {
			return model.Patch{}, errFlag("deadline", err)
		}
		p.Deadline = &d
	}
	if changed("frequency") {
		fr, err := model.ParseFrequency(ff.frequency)
		if err != nil {
			return model.Patch{}, errFlag("frequency", err)
		}
		p.Frequency = &fr
	}
	if changed("status") {
		s, err := model.ParseStatus(ff.status)
		if err != nil {
			return model.Patch{}, errFlag("status", err)
		}
		p.Status = &s
	}
	return p, nil
}

func newTasksAddCmd(app *App) *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a filing task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.fields()
			if err != nil {
				return writeErr(cmd, err)
			}
			f = f.Normalize()
			if err := f.Validate(); err != nil {
				return writeErr(cmd, err)
			}

			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			t, err := ts.Add(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": t,
				"meta": map[string]any{"message": "Task added: " + t.Ref()},
			})
		},
	}
	ff.register(cmd)
	return cmd
}

// filterFlags select a subset of tasks for list and export.
type filterFlags struct {
	status    string
	frequency string
	search    string
}

func (fl *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fl.status, "status", "", "Only tasks with this status")
	cmd.Flags().StringVar(&fl.frequency, "frequency", "", "Only tasks with this frequency")
	cmd.Flags().StringVar(&fl.search, "search", "", "Fuzzy match on form number and name")
	cmd.Flags().String("sort", "", "Sort by deadline|formNumber|status|createdAt (default from config: deadline)")
}

func (fl *filterFlags) filter() (view.Filter, error) {
	f := view.Filter{Query: strings.TrimSpace(fl.search)}
	if strings.TrimSpace(fl.status) != "" {
		s, err := model.ParseStatus(fl.status)
		if err != nil {
			return view.Filter{}, errFlag("status", err)
		}
		f.Status = &s
	}
	if strings.TrimSpace(fl.frequency) != "" {
		fr, err := model.ParseFrequency(fl.frequency)
		if err != nil {
			return view.Filter{}, errFlag("frequency", err)
		}
		f.Frequency = &fr
	}
	return f, nil
}

func newTasksListCmd(app *App) *cobra.Command {
	var fl filterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fl.filter()
			if err != nil {
				return writeErr(cmd, err)
			}
			// --sort is merged into the config (flag > env > file > default).
			key, err := view.ParseSortKey(app.cfg.Sort)
			if err != nil {
				return writeErr(cmd, errFlag("sort", err))
			}

			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			res := view.Build(ts.List(), f, key)
			meta := map[string]any{
				"shown": res.Shown,
				"total": res.Total,
				"sort":  key,
			}
			if !f.IsZero() {
				meta["filter"] = f
			}
			if res.Shown == 0 {
				meta["message"] = res.EmptyMessage(f)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Tasks,
				"meta": meta,
			})
		},
	}
	fl.register(cmd)
	return cmd
}

type taskDetail struct {
	model.Task
	Urgency  view.Urgency `json:"urgency"`
	DaysLeft int          `json:"daysLeft"`
	DueLabel string       `json:"dueLabel"`
	Overdue  bool         `json:"overdue"`
}

func detailOf(app *App, t model.Task) taskDetail {
	now := app.now()
	return taskDetail{
		Task:     t,
		Urgency:  view.Classify(t, now),
		DaysLeft: view.DaysLeft(t, now),
		DueLabel: view.DueLabel(t, now),
		Overdue:  view.IsOverdue(t, now),
	}
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <task-id>",
		Aliases: []string{"get"},
		Short:   "Show a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			id := strings.TrimSpace(args[0])
			t, ok := ts.Get(id)
			if !ok {
				return writeErr(cmd, errTaskNotFound(id))
			}
			return writeOut(cmd, app, map[string]any{"data": detailOf(app, t)})
		},
	}
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:     "edit <task-id>",
		Aliases: []string{"update"},
		Short:   "Change one or more fields of a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ff.patch(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			if p.IsEmpty() {
				return writeErr(cmd, errors.New("nothing to change (pass at least one field flag)"))
			}
			if err := p.Validate(); err != nil {
				return writeErr(cmd, err)
			}

			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			t, err := ts.Update(cmd.Context(), strings.TrimSpace(args[0]), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": t,
				"meta": map[string]any{"message": "Task updated: " + t.Ref()},
			})
		},
	}
	ff.register(cmd)
	return cmd
}

func newTasksSetStatusCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "set-status <task-id> [status]",
		Aliases: []string{"status"},
		Short:   "Set a task's status",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := status
			if len(args) == 2 {
				if cmd.Flags().Changed("status") {
					return writeErr(cmd, errors.New("pass the status either as an argument or with --status, not both"))
				}
				raw = args[1]
			}
			s, err := model.ParseStatus(raw)
			if err != nil {
				return writeErr(cmd, errFlag("status", err))
			}

			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			t, err := ts.UpdateStatus(cmd.Context(), strings.TrimSpace(args[0]), s)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": t,
				"meta": map[string]any{"message": "Status changed to " + t.Status.Label() + ": " + t.Ref()},
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "not-started|in-progress|completed")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			t, err := ts.Delete(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": t,
				"meta": map[string]any{"message": "Task deleted: " + t.Ref()},
			})
		},
	}
	return cmd
}

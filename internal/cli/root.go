package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"formbuddy/internal/config"
	"formbuddy/internal/format"
	"formbuddy/internal/logging"
	"formbuddy/internal/store"
	"formbuddy/internal/tui"
	"formbuddy/internal/view"
)

type App struct {
	Dir        string
	Backend    string
	ConfigFile string
	Format     string
	Pretty     bool
	LogLevel   string

	cfg *config.Config
	log *zap.SugaredLogger
	now func() time.Time
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{now: time.Now})
}

func newRootCmd(app *App) *cobra.Command {
	if app.now == nil {
		app.now = time.Now
	}

	cmd := &cobra.Command{
		Use:           "formbuddy",
		Short:         "Track BIR filing deadlines from the terminal (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  formbuddy

  # Scriptable commands
  formbuddy tasks list --status not-started --sort deadline
  formbuddy tasks add --form-number 2550M --form-name "Monthly VAT Declaration" --deadline 2025-02-20

  # Direct task lookup (shortcut for: formbuddy tasks show <task-id>)
  formbuddy 0b6a4c0e-2f0e-4d7e-9d43-6f1f4b7d2a11
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigFile, cmd.Flags())
		if err != nil {
			return writeErr(cmd, err)
		}
		if _, err := format.Parse(cfg.Format); err != nil {
			return writeErr(cmd, err)
		}
		if _, err := store.ParseBackend(cfg.Backend); err != nil {
			return writeErr(cmd, err)
		}
		if _, err := view.ParseSortKey(cfg.Sort); err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (default: the config dir, ~/.formbuddy)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "sqlite", "Storage backend (sqlite|file|memory)")
	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Config file (default: <config dir>/config.yaml if present)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	log, err := logging.New(logging.Options{
		Level:    app.cfg.Log.Level,
		Encoding: app.cfg.Log.Encoding,
		Path:     app.cfg.LogPath(),
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log

	ts, closeStore, err := openStore(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeStore()

	sortKey, _ := view.ParseSortKey(app.cfg.Sort)
	if err := tui.Run(ts, tui.Options{
		Sort:   sortKey,
		Detail: app.cfg.TUI.Detail,
		Now:    app.now,
		Log:    log,
	}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// logger returns the CLI logger (stderr unless log.file is set), building it on first use.
func (app *App) logger() (*zap.SugaredLogger, error) {
	if app.log != nil {
		return app.log, nil
	}
	log, err := logging.New(logging.Options{
		Level:    app.cfg.Log.Level,
		Encoding: app.cfg.Log.Encoding,
		Path:     app.cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	app.log = log
	return log, nil
}

// openStore opens the configured backend and loads the task collection (seeding on first run).
func openStore(ctx context.Context, app *App) (*store.TaskStore, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := app.logger()
	if err != nil {
		return nil, nil, err
	}
	backend, err := store.ParseBackend(app.cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	blobs, err := store.Open(ctx, backend, app.cfg.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store in %s: %w", backend, app.cfg.Dir, err)
	}
	ts := store.NewTaskStore(blobs,
		store.WithKey(app.cfg.Key),
		store.WithClock(app.now),
		store.WithLogger(log),
	)
	if _, err := ts.Load(ctx); err != nil {
		_ = blobs.Close()
		return nil, nil, err
	}
	return ts, func() { _ = blobs.Close() }, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	f, pretty := app.Format, app.Pretty
	if app.cfg != nil {
		f, pretty = app.cfg.Format, app.cfg.Pretty
	}
	return format.Write(cmd.OutOrStdout(), v, f, pretty)
}

// writeErr prints err to stderr and marks it as reported so main doesn't print it again.
func writeErr(cmd *cobra.Command, err error) error {
	var r reportedError
	if errors.As(err, &r) {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err: err}
}

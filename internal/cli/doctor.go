package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"formbuddy/internal/store"
)

func newDoctorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored tasks for corruption without changing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := store.ParseBackend(app.cfg.Backend)
			if err != nil {
				return writeErr(cmd, err)
			}
			blobs, err := store.Open(cmd.Context(), backend, app.cfg.Dir)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("open %s store in %s: %w", backend, app.cfg.Dir, err))
			}
			defer blobs.Close()

			log, err := app.logger()
			if err != nil {
				return writeErr(cmd, err)
			}
			// Doctor reads the raw blob; it never loads (and so never reseeds) the store.
			report := store.NewTaskStore(blobs, store.WithKey(app.cfg.Key), store.WithLogger(log)).Doctor(cmd.Context())

			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
					"backend":   backend,
					"dir":       app.cfg.Dir,
				},
			}); err != nil {
				return err
			}
			if report.HasErrors() {
				return writeErr(cmd, errDoctorIssuesFound)
			}
			return nil
		},
	}
	return cmd
}

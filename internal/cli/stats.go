package cli

import (
	"github.com/spf13/cobra"

	"formbuddy/internal/model"
	"formbuddy/internal/view"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Counts by status, plus overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, closeStore, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeStore()

			now := app.now()
			return writeOut(cmd, app, map[string]any{
				"data": view.Aggregate(ts.List(), now),
				"meta": map[string]any{"asOf": model.DateOf(now)},
			})
		},
	}
	return cmd
}

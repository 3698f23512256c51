package cli

import (
	"github.com/spf13/cobra"

	"formbuddy/internal/publish"
	"formbuddy/internal/view"
)

func newExportCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool
	var fl filterFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tasks as Markdown (index.md plus one page per task)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fl.filter()
			if err != nil {
				return writeErr(cmd, err)
			}
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
			out, err := publish.WriteTasks(res.Tasks, to, publish.WriteOptions{
				Overwrite: overwrite,
				Now:       app.now(),
				Total:     res.Total,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"shown": res.Shown, "total": res.Total},
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	fl.register(cmd)
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

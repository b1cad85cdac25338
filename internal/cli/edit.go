package cli

import (
	"pdfoutline/internal/model"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var opts writeOpts

	cmd := &cobra.Command{
		Use:   "edit <file.pdf>",
		Short: "Edit the outline of a PDF in your editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			p := app.NewPrompter(cmd.InOrStdin(), out)

			doc, items, arena, err := readOutline(args[0], &model.IDAllocator{})
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(items) == 0 {
				return writeErr(cmd, errNotFound("outline", args[0]))
			}
			app.Logger.Info("outline read", "path", doc.Path, "items", len(items))

			edited, err := app.editItems(ctx, p, out, items)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.writeBack(ctx, p, out, doc, edited, arena, opts); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}

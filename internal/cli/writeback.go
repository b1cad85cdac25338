package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"pdfoutline/internal/codec"
	"pdfoutline/internal/editloop"
	"pdfoutline/internal/editor"
	"pdfoutline/internal/model"
	"pdfoutline/internal/outline"
	"pdfoutline/internal/pdfdoc"
	"pdfoutline/internal/prompt"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	promptReplace      = "Replace original file?"
	promptKeepAccepted = "Write the last accepted outline?"
)

type writeOpts struct {
	output    string
	noPreview bool
	yes       bool
}

func (o *writeOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write the result to this path instead of replacing the original")
	cmd.Flags().BoolVar(&o.noPreview, "no-preview", false, "Do not open the result in the viewer")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Replace the original without asking")
}

// editItems runs the edit loop over items with the configured editor. When
// the editor fails after an edit was accepted, the user may keep that edit.
func (app *App) editItems(ctx context.Context, p Prompter, out io.Writer, items []*model.Item) ([]*model.Item, error) {
	loop := &editloop.Loop{
		Editor:   app.NewEditor(app.Config.Editor),
		Prompter: p,
		Out:      out,
		Preview:  previewFor(out),
		Logger:   app.Logger,
	}
	before := codec.Encode(items)
	got, err := loop.Run(ctx, items)
	if err == nil {
		return got, nil
	}

	var te *editor.ToolError
	if !errors.As(err, &te) || got == nil || codec.Encode(got) == before {
		return nil, err
	}
	fmt.Fprintf(out, "Editor failed: %v\n", err)
	keep, cerr := p.Confirm(promptKeepAccepted)
	if cerr != nil || !keep {
		return nil, err
	}
	return got, nil
}

// previewFor renders with glamour on a terminal and falls back to the plain
// listing otherwise.
func previewFor(out io.Writer) func(io.Writer, []*model.Item) error {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 80
	}
	return prompt.Previewer(width)
}

// writeBack stores items as doc's outline. With --output the result goes
// there; otherwise a temp copy is previewed and, once confirmed, replaces
// the original.
func (app *App) writeBack(ctx context.Context, p Prompter, out io.Writer, doc *pdfdoc.Document, items []*model.Item, arena *pdfdoc.Arena, opts writeOpts) error {
	tree, err := outline.BuildTree(items, 0)
	if err != nil {
		return err
	}
	entries, err := pdfdoc.ToEntries(tree, arena)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := pdfdoc.Save(doc, entries, opts.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", opts.output)
		return nil
	}

	tmp, err := pdfdoc.SaveTemp(doc, entries)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tmp)
	if !opts.noPreview {
		if err := pdfdoc.Preview(app.Config.Viewer, tmp, app.Logger); err != nil {
			app.Logger.Warn("preview failed", "err", err)
		}
	}

	replace := opts.yes
	if !replace {
		replace, err = p.Confirm(promptReplace)
		if err != nil {
			_ = os.Remove(tmp)
			return err
		}
	}
	if !replace {
		if err := os.Remove(tmp); err != nil {
			app.Logger.Warn("removing temp file failed", "path", tmp, "err", err)
		}
		fmt.Fprintln(out, "Original left unchanged.")
		return nil
	}

	bak, err := pdfdoc.Replace(ctx, doc.Path, tmp, app.Config.KeepBackup, app.Config.TrashCommand, app.Logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Replaced %s\n", doc.Path)
	if bak != "" {
		fmt.Fprintf(out, "Backup kept at %s\n", bak)
	}
	return nil
}

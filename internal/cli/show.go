package cli

import (
	"io"
	"strings"

	"pdfoutline/internal/codec"
	"pdfoutline/internal/format"
	"pdfoutline/internal/model"
	"pdfoutline/internal/outline"
	"pdfoutline/internal/pdfdoc"

	"github.com/spf13/cobra"
)

type outlineEntry struct {
	ID     int    `json:"id" yaml:"id"`
	Level  int    `json:"level" yaml:"level"`
	Title  string `json:"title" yaml:"title"`
	Page   int    `json:"page" yaml:"page"`
	Source string `json:"source" yaml:"source"`
}

func outlineEntries(items []*model.Item) []outlineEntry {
	out := make([]outlineEntry, 0, len(items))
	for _, it := range items {
		out = append(out, outlineEntry{
			ID:     it.ID,
			Level:  it.Level,
			Title:  it.Title,
			Page:   it.Target.Page + 1,
			Source: it.Provenance.String(),
		})
	}
	return out
}

// readOutline opens path and returns its outline flattened, with the arena
// owning the original bookmarks.
func readOutline(path string, ids *model.IDAllocator) (*pdfdoc.Document, []*model.Item, *pdfdoc.Arena, error) {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	tree, arena, err := pdfdoc.ReadOutline(doc, ids)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, outline.Flatten(tree), arena, nil
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file.pdf>",
		Short: "Print the outline of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, items, _, err := readOutline(args[0], &model.IDAllocator{})
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.EqualFold(app.Format, "text") {
				_, err := io.WriteString(cmd.OutOrStdout(), codec.Encode(items))
				return err
			}
			if !format.Valid(app.Format) {
				return writeErr(cmd, unsupportedFormatError{format: app.Format, cmd: "show"})
			}
			return writeOut(cmd, app, map[string]any{"data": outlineEntries(items)})
		},
	}
	return cmd
}

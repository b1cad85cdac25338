package cli

import (
	"context"
	"fmt"
	"strings"

	"pdfoutline/internal/model"
	"pdfoutline/internal/prompt"
	"pdfoutline/internal/zotero"

	"github.com/spf13/cobra"
)

type annotationSource struct {
	Item       zotero.Item
	Attachment zotero.Attachment
	Path       string
	Annots     []model.Annotation
}

func (app *App) openLibrary(ctx context.Context) (*zotero.Library, error) {
	lib, err := zotero.Open(ctx, app.Config.ZoteroDir)
	if err != nil {
		return nil, err
	}
	lib.Logger = app.Logger
	return lib, nil
}

// loadAnnotations resolves a citation key to one PDF attachment (asking when
// there are several) and reads its annotations in reading order.
func (app *App) loadAnnotations(ctx context.Context, p Prompter, citeKey string) (*annotationSource, error) {
	lib, err := app.openLibrary(ctx)
	if err != nil {
		return nil, err
	}
	defer lib.Close()

	item, err := lib.LookupItem(ctx, citeKey)
	if err != nil {
		return nil, err
	}
	atts, err := lib.Attachments(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if len(atts) == 0 {
		return nil, errNotFound("pdf attachment", citeKey)
	}
	labels := make([]string, 0, len(atts))
	for _, a := range atts {
		labels = append(labels, a.Label())
	}
	idx, err := p.SelectOne("Choose attachment", labels)
	if err != nil {
		return nil, err
	}
	att := atts[idx]
	path, err := lib.ResolvePath(att)
	if err != nil {
		return nil, err
	}
	annots, err := lib.Annotations(ctx, att.ID)
	if err != nil {
		return nil, err
	}
	app.Logger.Info("annotations loaded", "citekey", citeKey, "attachment", att.Key, "count", len(annots))
	return &annotationSource{Item: item, Attachment: att, Path: path, Annots: annots}, nil
}

func filterColor(annots []model.Annotation, color string) []model.Annotation {
	color = strings.TrimSpace(color)
	if color == "" {
		return annots
	}
	var out []model.Annotation
	for _, a := range annots {
		if strings.EqualFold(a.Color, color) {
			out = append(out, a)
		}
	}
	return out
}

func colorGroupLabel(g model.ColorGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Color: %s %s (%d)\n", prompt.ColorBlock(g.Color, 5), g.Color, len(g.Annotations))
	for _, a := range g.Annotations {
		fmt.Fprintf(&b, "p. %d: %s\n", a.Page+1, model.NormalizeTitle(a.Text))
	}
	return b.String()
}

func newAnnotationsCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "annotations <citekey>",
		Short: "List the annotations of a Zotero item's PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := app.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			src, err := app.loadAnnotations(cmd.Context(), p, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			annots := filterColor(src.Annots, color)
			if annots == nil {
				annots = []model.Annotation{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": annots,
				"meta": map[string]any{
					"citekey":    args[0],
					"attachment": src.Attachment.Key,
					"path":       src.Path,
				},
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Only annotations with this color (e.g. #ffd400)")
	return cmd
}

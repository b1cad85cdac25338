package cli

import (
	"context"
	"fmt"

	"pdfoutline/internal/model"
	"pdfoutline/internal/outline"

	"github.com/spf13/cobra"
)

const (
	promptColor    = "Choose annotation color"
	promptExisting = "The PDF already has an outline"
)

type existingChoice int

const (
	discardExisting existingChoice = iota
	mergeExisting
	keepExisting
)

var existingOptions = []string{
	discardExisting: "Discard existing outline",
	mergeExisting:   "Merge existing outline with annotations",
	keepExisting:    "Keep only existing outline",
}

// chooseGroup picks the annotations of one color, by flag or by asking.
func chooseGroup(p Prompter, annots []model.Annotation, color string) ([]model.Annotation, error) {
	if color != "" {
		picked := filterColor(annots, color)
		if len(picked) == 0 {
			return nil, errNotFound("annotations with color", color)
		}
		return picked, nil
	}
	groups := model.GroupByColor(annots)
	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, colorGroupLabel(g))
	}
	idx, err := p.SelectOne(promptColor, labels)
	if err != nil {
		return nil, err
	}
	return groups[idx].Annotations, nil
}

// combine resolves how annotation items and an existing outline go together.
func combine(p Prompter, annotated, existing []*model.Item) ([]*model.Item, error) {
	if len(existing) == 0 {
		return annotated, nil
	}
	idx, err := p.SelectOne(fmt.Sprintf("%s (%d entries)", promptExisting, len(existing)), existingOptions)
	if err != nil {
		return nil, err
	}
	switch existingChoice(idx) {
	case mergeExisting:
		return outline.Merge(annotated, existing), nil
	case keepExisting:
		return existing, nil
	default:
		return annotated, nil
	}
}

func (app *App) runFromAnnotations(ctx context.Context, cmd *cobra.Command, citeKey, color string, opts writeOpts) error {
	out := cmd.OutOrStdout()
	p := app.NewPrompter(cmd.InOrStdin(), out)

	src, err := app.loadAnnotations(ctx, p, citeKey)
	if err != nil {
		return err
	}
	if len(src.Annots) == 0 {
		return errNotFound("annotations", citeKey)
	}
	group, err := chooseGroup(p, src.Annots, color)
	if err != nil {
		return err
	}

	ids := &model.IDAllocator{}
	annotated := model.ItemsFromAnnotations(group, ids)
	doc, existing, arena, err := readOutline(src.Path, ids)
	if err != nil {
		return err
	}
	items, err := combine(p, annotated, existing)
	if err != nil {
		return err
	}
	app.Logger.Info("outline seeded", "annotations", len(annotated), "existing", len(existing), "items", len(items))

	edited, err := app.editItems(ctx, p, out, items)
	if err != nil {
		return err
	}
	return app.writeBack(ctx, p, out, doc, edited, arena, opts)
}

func newFromAnnotationsCmd(app *App) *cobra.Command {
	var (
		opts  writeOpts
		color string
	)

	cmd := &cobra.Command{
		Use:   "from-annotations <citekey>",
		Short: "Build a PDF outline from the Zotero annotations of one color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.runFromAnnotations(cmd.Context(), cmd, args[0], color, opts); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Use annotations of this color without asking (e.g. #ffd400)")
	opts.bind(cmd)
	return cmd
}

package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"pdfoutline/internal/model"
)

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "#", `\#`, "<", `\<`, ">", `\>`,
)

// PreviewMarkdown lists the outline as a nested markdown list.
func PreviewMarkdown(items []*model.Item) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(strings.Repeat("  ", it.Level))
		b.WriteString("- ")
		b.WriteString(markdownSpecial.Replace(it.Title))
		fmt.Fprintf(&b, " *(p. %d)*\n", it.Target.Page+1)
	}
	return b.String()
}

// RenderPreview renders the outline for the terminal. Rendering errors fall
// back to the raw markdown.
func RenderPreview(items []*model.Item, width int) string {
	md := PreviewMarkdown(items)
	if width < 20 {
		width = 80
	}
	style := "dark"
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Previewer adapts RenderPreview to the edit loop's preview hook.
func Previewer(width int) func(io.Writer, []*model.Item) error {
	return func(w io.Writer, items []*model.Item) error {
		_, err := io.WriteString(w, RenderPreview(items, width))
		return err
	}
}

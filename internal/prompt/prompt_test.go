package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"pdfoutline/internal/model"
)

func TestTerminalSelectOne_RetriesUntilValid(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("x\n7\n1\n"), &out)
	idx, err := term.SelectOne("Choose attachment", []string{"a.pdf", "b.pdf"})
	if err != nil {
		t.Fatalf("SelectOne: %v", err)
	}
	if idx != 1 {
		t.Fatalf("idx=%d, want 1", idx)
	}
	if got := strings.Count(out.String(), "Choose attachment: "); got != 3 {
		t.Fatalf("expected 3 prompts, got %d:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "  0: a.pdf") || !strings.Contains(out.String(), "  1: b.pdf") {
		t.Fatalf("expected numbered options, got:\n%s", out.String())
	}
}

func TestTerminalSelectOne_SingleOptionIsChosen(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)
	idx, err := term.SelectOne("Choose", []string{"only"})
	if err != nil || idx != 0 {
		t.Fatalf("got %d %v", idx, err)
	}
	if !strings.Contains(out.String(), "Choosing   0: only") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestTerminalSelectOne_EmptyOptionsIsPrecondition(t *testing.T) {
	t.Parallel()

	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	_, err := term.SelectOne("Choose", nil)
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}

	_, err = (&Picker{}).SelectOne("Choose", nil)
	if !errors.As(err, &pe) {
		t.Fatalf("expected PreconditionError from picker, got %v", err)
	}
}

func TestTerminalConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" n \n", false},
		{"maybe\nno\n", false},
		{"yes", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := NewTerminal(strings.NewReader(tt.in), &out).Confirm("Replace original file?")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Confirm(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTerminalConfirm_ClosedInput(t *testing.T) {
	t.Parallel()

	_, err := NewTerminal(strings.NewReader(""), &bytes.Buffer{}).Confirm("Continue?")
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
}

func TestPickerModel_MovesAndChooses(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPickerModel("Choose color", []string{"red", "green", "blue"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown}) // clamps at the end
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})

	pm := m.(pickerModel)
	if pm.cursor != 1 {
		t.Fatalf("cursor=%d, want 1", pm.cursor)
	}
	if !strings.Contains(pm.View(), "> ") {
		t.Fatalf("expected cursor marker in view:\n%s", pm.View())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm = m.(pickerModel)
	if !pm.chosen || pm.canceled || cmd == nil {
		t.Fatalf("expected chosen with quit cmd, got %+v", pm)
	}
}

func TestPickerModel_Cancel(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPickerModel("Choose", []string{"a", "b"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if pm := m.(pickerModel); !pm.canceled {
		t.Fatalf("expected canceled")
	}
}

func TestPickerView_ClipsToWidth(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPickerModel("T", []string{strings.Repeat("x", 200) + "\nsecond line"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	for _, ln := range strings.Split(m.View(), "\n") {
		if w := lipgloss.Width(ln); w > 40 {
			t.Fatalf("line wider than terminal (%d): %q", w, ln)
		}
	}
	if !strings.Contains(m.View(), "second line") {
		t.Fatalf("expected continuation line in view")
	}
}

func TestPickerView_ScrollsLongLists(t *testing.T) {
	t.Parallel()

	opts := make([]string, 200)
	for i := range opts {
		opts[i] = fmt.Sprintf("group %d\nline a\nline b\nline c\nline d", i)
	}
	var m tea.Model = newPickerModel("Choose annotation color", opts)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	for range 150 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	view := m.View()
	if n := len(strings.Split(view, "\n")); n > 20 {
		t.Fatalf("view has %d lines, terminal has 20:\n%s", n, view)
	}
	if !strings.Contains(view, "> 150 group 150") {
		t.Fatalf("cursor option not visible:\n%s", view)
	}
	if !strings.Contains(view, "… 3 more") {
		t.Fatalf("expected long option to be cut:\n%s", view)
	}
	if strings.Contains(view, "line c") {
		t.Fatalf("option lines beyond the cap shown:\n%s", view)
	}
	if !strings.Contains(view, "↑") || !strings.Contains(view, "↓ ") {
		t.Fatalf("expected scroll markers:\n%s", view)
	}
	if pm := m.(pickerModel); pm.cursor != 150 {
		t.Fatalf("cursor=%d", pm.cursor)
	}
}

func TestClip(t *testing.T) {
	t.Parallel()

	if got := clip("hello world", 5); got != "hell…" {
		t.Fatalf("clip=%q", got)
	}
	if got := clip("short", 10); got != "short" {
		t.Fatalf("clip=%q", got)
	}
	if got := clip("anything", 0); got != "anything" {
		t.Fatalf("clip=%q", got)
	}
}

func TestColorBlock(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	if got := ColorBlock("#ff0000", 3); got != "███" {
		t.Fatalf("ascii profile should render plain block, got %q", got)
	}
	if got := ColorBlock("not-a-color", 2); got != "██" {
		t.Fatalf("invalid color should render plain block, got %q", got)
	}

	lipgloss.SetColorProfile(termenv.TrueColor)
	if got := ColorBlock("#FF0000", 1); !strings.Contains(got, "█") || got == "█" {
		t.Fatalf("expected colored block, got %q", got)
	}
}

func TestPreviewMarkdown_NestsAndEscapes(t *testing.T) {
	t.Parallel()

	items := []*model.Item{
		{Level: 0, Title: "Intro *draft*", Target: model.Target{Page: 0}},
		{Level: 1, Title: "Sub [1]", Target: model.Target{Page: 4}},
	}
	got := PreviewMarkdown(items)
	want := "- Intro \\*draft\\* *(p. 1)*\n  - Sub \\[1\\] *(p. 5)*\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderPreview_ContainsTitles(t *testing.T) {
	t.Parallel()

	items := []*model.Item{{Title: "Chapter One"}, {Level: 1, Title: "Section"}}
	out := RenderPreview(items, 60)
	if !strings.Contains(out, "Chapter One") || !strings.Contains(out, "Section") {
		t.Fatalf("expected titles in preview, got:\n%s", out)
	}
}

package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "ctrl+g", "q"), key.WithHelp("esc", "cancel")),
}

// Options longer than this are cut with a "… N more" line.
const maxOptionLines = 3

// Title, blank lines, scroll markers and help around the list.
const pickerChrome = 6

type pickerModel struct {
	title    string
	options  []string
	cursor   int
	top      int
	width    int
	height   int
	chosen   bool
	canceled bool
}

func newPickerModel(title string, options []string) pickerModel {
	return pickerModel{title: strings.TrimSpace(title), options: options}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, pickerKeys.Choose):
			m.chosen = true
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Cancel):
			m.canceled = true
			return m, tea.Quit
		}
		m.scroll()
	}
	return m, nil
}

func optionLines(opt string) []string {
	lines := strings.Split(strings.TrimRight(opt, "\n"), "\n")
	if len(lines) > maxOptionLines {
		keep := maxOptionLines - 1
		lines = append(lines[:keep:keep], fmt.Sprintf("… %d more", len(lines)-keep))
	}
	return lines
}

// listHeight is the number of option lines that fit; 0 means unlimited.
func (m pickerModel) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-pickerChrome, 1)
}

// scroll moves the window so the cursor's option is fully visible.
func (m *pickerModel) scroll() {
	budget := m.listHeight()
	if budget == 0 {
		m.top = 0
		return
	}
	if m.cursor < m.top {
		m.top = m.cursor
	}
	for m.top < m.cursor && m.linesBetween(m.top, m.cursor) > budget {
		m.top++
	}
}

func (m pickerModel) linesBetween(from, to int) int {
	n := 0
	for i := from; i <= to && i < len(m.options); i++ {
		n += len(optionLines(m.options[i]))
	}
	return n
}

func (m pickerModel) View() string {
	if m.chosen || m.canceled {
		return ""
	}
	selected := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(selected.Render(m.title))
	b.WriteString("\n")
	if m.top > 0 {
		b.WriteString(muted.Render(fmt.Sprintf("  ↑ %d more", m.top)))
	}
	b.WriteString("\n")

	budget := m.listHeight()
	used, last := 0, m.top-1
	for i := m.top; i < len(m.options); i++ {
		lines := optionLines(m.options[i])
		if budget > 0 && used+len(lines) > budget && i > m.top {
			break
		}
		for j, ln := range lines {
			prefix := "     "
			if j == 0 {
				prefix = fmt.Sprintf("  %2d ", i)
				if i == m.cursor {
					prefix = fmt.Sprintf("> %2d ", i)
				}
			}
			ln = clip(prefix+ln, m.width)
			if i == m.cursor {
				ln = selected.Render(ln)
			}
			b.WriteString(ln)
			b.WriteString("\n")
		}
		used += len(lines)
		last = i
	}
	if rest := len(m.options) - 1 - last; rest > 0 {
		b.WriteString(muted.Render(fmt.Sprintf("  ↓ %d more", rest)))
	}
	b.WriteString("\n")
	b.WriteString(muted.Render("↑/↓: move   enter: choose   esc: cancel"))
	return b.String()
}

func clip(s string, width int) string {
	if width <= 0 || xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// Picker is a full-screen single-choice list for interactive terminals.
type Picker struct {
	In  io.Reader
	Out io.Writer
}

func (p *Picker) SelectOne(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(newPickerModel(prompt, options), opts...).Run()
	if err != nil {
		return 0, err
	}
	m := final.(pickerModel)
	if m.canceled || !m.chosen {
		return 0, ErrCanceled
	}
	return m.cursor, nil
}

package prompt

import (
	"os"

	"golang.org/x/term"
)

// Console answers SelectOne with the picker when attached to a terminal and
// falls back to numbered line prompts otherwise. Confirm is always
// line-based.
type Console struct {
	*Terminal
	Picker    *Picker
	UsePicker bool
}

func NewConsole(in, out *os.File) *Console {
	interactive := term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
	return &Console{
		Terminal:  NewTerminal(in, out),
		Picker:    &Picker{In: in, Out: out},
		UsePicker: interactive,
	}
}

func (c *Console) SelectOne(prompt string, options []string) (int, error) {
	if c.UsePicker && c.Picker != nil && len(options) > 1 {
		return c.Picker.SelectOne(prompt, options)
	}
	return c.Terminal.SelectOne(prompt, options)
}

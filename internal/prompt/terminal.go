package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrNoOptions is returned when SelectOne is called without options.
	ErrNoOptions = &PreconditionError{Reason: "select: empty option list"}

	ErrInputClosed = errors.New("input closed")
	ErrCanceled    = errors.New("selection canceled")
)

// PreconditionError is a caller contract violation, not a user error.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// Terminal asks questions over plain line-based I/O.
type Terminal struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{In: bufio.NewReader(in), Out: out}
}

// SelectOne lists options with their index and reads an index back until it
// is valid. A single option is chosen without asking.
func (t *Terminal) SelectOne(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	if len(options) == 1 {
		fmt.Fprintf(t.Out, "Choosing %3d: %s\n", 0, options[0])
		return 0, nil
	}

	for i, opt := range options {
		fmt.Fprintf(t.Out, "%3d: %s\n", i, opt)
	}
	for {
		fmt.Fprintf(t.Out, "%s: ", prompt)
		answer, err := t.readLine()
		if err != nil {
			return 0, err
		}
		idx, err := strconv.Atoi(answer)
		if err == nil && idx >= 0 && idx < len(options) {
			return idx, nil
		}
		fmt.Fprintf(t.Out, "Please enter a number between 0 and %d.\n", len(options)-1)
	}
}

// Confirm asks a yes/no question until it gets one of y, yes, n, no.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	for {
		fmt.Fprintf(t.Out, "%s [y/n] ", prompt)
		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.Out, "Please enter y[es] or n[o]!")
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.In.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

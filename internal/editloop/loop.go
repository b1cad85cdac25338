// Package editloop drives repeated external edits of an outline until the
// user is satisfied.
package editloop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"pdfoutline/internal/codec"
	"pdfoutline/internal/model"
	"pdfoutline/internal/outline"
)

type Editor interface {
	Edit(ctx context.Context, text string) (string, error)
}

type Prompter interface {
	Confirm(prompt string) (bool, error)
}

const (
	PromptContinue = "Continue editing?"
	PromptFix      = "Re-open the editor to fix it? (no discards this edit)"
)

type state int

const (
	stateEditing state = iota
	stateDone
)

type Loop struct {
	Editor   Editor
	Prompter Prompter
	Out      io.Writer

	// Preview renders the current outline after every accepted edit.
	// When nil a plain indented listing is written.
	Preview func(w io.Writer, items []*model.Item) error

	Logger *slog.Logger
}

// Run edits items until the user declines to continue and returns the final
// ordered items. Rejected edits never replace the baseline. An editor
// failure ends the run with the error and the last accepted items, which
// are the input itself when no edit was accepted yet.
func (l *Loop) Run(ctx context.Context, items []*model.Item) ([]*model.Item, error) {
	log := l.logger()
	current := items
	pending := ""

	for st := stateEditing; st != stateDone; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		baseline := codec.Encode(current)
		text := baseline
		if pending != "" {
			text = pending
			pending = ""
		}

		edited, err := l.Editor.Edit(ctx, text)
		if err != nil {
			log.Warn("editor failed", "error", err)
			return current, err
		}

		if strings.TrimSpace(edited) == "" || edited == baseline {
			l.printf("No changes.\n")
		} else {
			next, err := apply(edited, current)
			if err != nil {
				if !Recoverable(err) {
					return nil, err
				}
				log.Info("edit rejected", "error", err)
				l.printf("Edit rejected: %v\n", err)
				fix, err := l.Prompter.Confirm(PromptFix)
				if err != nil {
					return nil, err
				}
				if fix {
					pending = edited
				}
				continue
			}
			log.Debug("edit accepted", "before", len(current), "after", len(next))
			current = next
		}

		if err := l.preview(current); err != nil {
			return nil, err
		}
		more, err := l.Prompter.Confirm(PromptContinue)
		if err != nil {
			return nil, err
		}
		if !more {
			st = stateDone
		}
	}
	return current, nil
}

// apply decodes against the current baseline and checks the result can be
// nested. Levels are copied back if the tree check fails, since Decode has
// already retitled the shared items.
func apply(text string, current []*model.Item) ([]*model.Item, error) {
	saved := make([]model.Item, len(current))
	for i, it := range current {
		saved[i] = *it
	}

	next, err := codec.Decode(text, model.ByID(current))
	if err != nil {
		return nil, err
	}
	if err := outline.Validate(next); err != nil {
		for i, it := range current {
			model.Retitle(it, saved[i].Level, saved[i].Title)
		}
		return nil, err
	}
	return next, nil
}

// Recoverable reports errors that send the user back to the editor.
func Recoverable(err error) bool {
	var se *codec.SyntaxError
	var re *codec.ReferenceError
	var st *outline.StructuralError
	return errors.As(err, &se) || errors.As(err, &re) || errors.As(err, &st)
}

func (l *Loop) preview(items []*model.Item) error {
	if l.Out == nil {
		return nil
	}
	if l.Preview != nil {
		return l.Preview(l.Out, items)
	}
	return WriteListing(l.Out, items)
}

// WriteListing prints items indented by level with their 1-based page.
func WriteListing(w io.Writer, items []*model.Item) error {
	for _, it := range items {
		if _, err := fmt.Fprintf(w, "%s%s (p. %d)\n", strings.Repeat("  ", it.Level), it.Title, it.Target.Page+1); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) printf(format string, args ...any) {
	if l.Out == nil {
		return
	}
	fmt.Fprintf(l.Out, format, args...)
}

func (l *Loop) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ToolError is a failure of the editor process or of the temp file around it.
// The text handed to the editor is never lost on this error.
type ToolError struct {
	Op  string
	Err error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("editor %s: %v", e.Op, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Name picks the editor command: an explicit value wins, then $VISUAL,
// $EDITOR, and finally vi.
func Name(configured string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// External runs an editor process on a private temp file.
type External struct {
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Pattern is the os.CreateTemp pattern; the suffix helps editors pick a mode.
	Pattern string
	Logger  *slog.Logger
}

func NewExternal(command string) *External {
	return &External{
		Command: Name(command),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Pattern: "pdfoutline-*.md",
	}
}

// Edit blocks until the editor exits and returns the file contents at that
// point. The temp file is removed afterwards.
func (e *External) Edit(ctx context.Context, text string) (string, error) {
	args := SplitShellWords(e.Command)
	if len(args) == 0 {
		args = []string{"vi"}
	}
	pattern := e.Pattern
	if pattern == "" {
		pattern = "pdfoutline-*.md"
	}

	// CreateTemp opens with 0600, so the file is private to this user.
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", &ToolError{Op: "create temp file", Err: err}
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return "", &ToolError{Op: "write temp file", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &ToolError{Op: "write temp file", Err: err}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	e.logger().Debug("starting editor", "command", args[0], "file", path)
	if err := cmd.Run(); err != nil {
		return "", &ToolError{Op: "run " + args[0], Err: err}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", &ToolError{Op: "read temp file", Err: err}
	}
	return string(b), nil
}

func (e *External) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"pdfoutline/internal/config"
	"pdfoutline/internal/editloop"
	"pdfoutline/internal/editor"
	"pdfoutline/internal/format"
	"pdfoutline/internal/prompt"

	"github.com/spf13/cobra"
)

// Prompter is what commands need from the user: pick one option or answer
// yes/no.
type Prompter interface {
	SelectOne(prompt string, options []string) (int, error)
	Confirm(prompt string) (bool, error)
}

type App struct {
	ConfigFile string
	ZoteroDir  string
	LogLevel   string
	PrettyJSON bool
	Format     string

	Config    *config.Config
	Logger    *slog.Logger
	SessionID string

	// Swappable for tests.
	NewPrompter func(in io.Reader, out io.Writer) Prompter
	NewEditor   func(command string) editloop.Editor
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.NewPrompter == nil {
		app.NewPrompter = defaultPrompter
	}
	if app.NewEditor == nil {
		app.NewEditor = func(command string) editloop.Editor {
			e := editor.NewExternal(command)
			e.Logger = app.Logger
			return e
		}
	}

	cmd := &cobra.Command{
		Use:           "pdfoutline",
		Short:         "Edit PDF outlines in your text editor, seeded from Zotero annotations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Build an outline from the highlights of a Zotero item
  pdfoutline from-annotations doe2020

  # Edit the outline of a PDF (shortcut for: pdfoutline edit paper.pdf)
  pdfoutline paper.pdf

  # Print an outline in the text notation
  pdfoutline show paper.pdf --format text

  # Export annotations as YAML
  pdfoutline annotations doe2020 --format yaml
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("PDFOUTLINE_CONFIG", ""), "Config file (default: ./pdfoutline.yaml or ~/.pdfoutline/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.ZoteroDir, "zotero-dir", "", "Zotero data directory (default: ~/Zotero)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PDFOUTLINE_FORMAT", "json"), "Output format (json|yaml; show also accepts text)")

	cmd.AddCommand(newAnnotationsCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newFromAnnotationsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup loads configuration and the logger once per invocation.
func (app *App) setup(cmd *cobra.Command) error {
	m, err := config.NewManager(app.ConfigFile)
	if err != nil {
		return writeErr(cmd, err)
	}
	root := cmd.Root().PersistentFlags()
	if err := m.BindFlag("zotero_dir", root.Lookup("zotero-dir")); err != nil {
		return writeErr(cmd, err)
	}
	if err := m.BindFlag("log_level", root.Lookup("log-level")); err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := m.Load()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Config = cfg

	logger, session, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Logger, app.SessionID = logger, session
	if f := m.File(); f != "" {
		logger.Debug("config loaded", "file", f)
	}
	prompt.ApplyColorProfile()
	return nil
}

func defaultPrompter(in io.Reader, out io.Writer) Prompter {
	fin, okIn := in.(*os.File)
	fout, okOut := out.(*os.File)
	if okIn && okOut {
		return prompt.NewConsole(fin, fout)
	}
	return prompt.NewTerminal(in, out)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err}
}

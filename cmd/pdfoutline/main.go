package main

import (
	"fmt"
	"os"
	"strings"

	"pdfoutline/internal/cli"
)

func isPDFPath(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > len(".pdf") && strings.EqualFold(s[len(s)-len(".pdf"):], ".pdf")
}

func rewriteDirectEditArgs(argv []string) []string {
	// Convenience: `pdfoutline paper.pdf` works like `pdfoutline edit paper.pdf`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first, so look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":     true,
		"--zotero-dir": true,
		"--log-level":  true,
		"--format":     true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	edit := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "edit")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Cobra stops looking for subcommands at "--".
			if i+1 < len(argv) && isPDFPath(argv[i+1]) {
				return edit(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isPDFPath(a) {
			return edit(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectEditArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitShellWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"vim", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{"vim -u 'foo bar'", []string{"vim", "-u", "foo bar"}},
		{"vim -c \"set ft=markdown\"", []string{"vim", "-c", "set ft=markdown"}},
		{"vim\\ -u\\ foo", []string{"vim -u foo"}},
		{"emacsclient -a ''", []string{"emacsclient", "-a", ""}},
	}

	for _, tt := range tests {
		if got := SplitShellWords(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("SplitShellWords(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestName_Precedence(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	if got := Name(""); got != "nano" {
		t.Fatalf("expected $EDITOR, got %q", got)
	}
	t.Setenv("VISUAL", "code --wait")
	if got := Name(""); got != "code --wait" {
		t.Fatalf("expected $VISUAL, got %q", got)
	}
	if got := Name("hx"); got != "hx" {
		t.Fatalf("expected configured editor, got %q", got)
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := Name(""); got != "vi" {
		t.Fatalf("expected vi fallback, got %q", got)
	}
}

func TestExternalEdit_ReturnsEditedTextAndRemovesTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	record := filepath.Join(dir, "path.txt")
	script := `cat "$1" > ` + record + `.in; echo "$1" > ` + record + `; printf "# edited [id=0]\n" > "$1"`

	var stderr bytes.Buffer
	e := &External{
		Command: "sh -c '" + script + "' sh",
		Stdout:  &bytes.Buffer{},
		Stderr:  &stderr,
	}
	got, err := e.Edit(context.Background(), "# original [id=0]\n")
	if err != nil {
		t.Fatalf("Edit: %v (stderr %s)", err, stderr.String())
	}
	if got != "# edited [id=0]\n" {
		t.Fatalf("got %q", got)
	}

	seen, err := os.ReadFile(record + ".in")
	if err != nil {
		t.Fatalf("read editor input copy: %v", err)
	}
	if string(seen) != "# original [id=0]\n" {
		t.Fatalf("editor saw %q", string(seen))
	}

	p, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("read recorded path: %v", err)
	}
	tmp := strings.TrimSpace(string(p))
	if !strings.HasSuffix(tmp, ".md") {
		t.Fatalf("expected .md temp file, got %q", tmp)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be removed, stat err=%v", err)
	}
}

func TestExternalEdit_FailingEditorIsToolError(t *testing.T) {
	t.Parallel()

	e := &External{Command: "sh -c 'exit 3' sh", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	_, err := e.Edit(context.Background(), "text")
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %v", err)
	}
}

func TestExternalEdit_MissingBinaryIsToolError(t *testing.T) {
	t.Parallel()

	e := &External{Command: "pdfoutline-no-such-editor-binary", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	_, err := e.Edit(context.Background(), "text")
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %v", err)
	}
}

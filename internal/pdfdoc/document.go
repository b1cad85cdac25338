// Package pdfdoc reads and writes PDF outlines on top of pdfcpu's object model.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfoutline/internal/model"
	"pdfoutline/internal/outline"
)

func init() {
	// Keep pdfcpu from creating its config dir under the user's home.
	api.DisableConfigDir()
}

// Document is a PDF held in memory. Writing never touches Path.
type Document struct {
	Path string
	data []byte
}

func Open(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: %w", err)
	}
	return &Document{Path: path, data: b}, nil
}

// FromBytes wraps an in-memory PDF. Path is used for naming temp files only.
func FromBytes(path string, data []byte) *Document {
	return &Document{Path: path, data: data}
}

func (d *Document) reader() io.ReadSeeker { return bytes.NewReader(d.data) }

func config() *pdfmodel.Configuration {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

func (d *Document) PageCount() (int, error) {
	n, err := api.PageCount(d.reader(), config())
	if err != nil {
		return 0, fmt.Errorf("pdfdoc: page count: %w", err)
	}
	return n, nil
}

func (d *Document) context(cmd pdfmodel.CommandMode) (*pdfmodel.Context, error) {
	conf := config()
	conf.Cmd = cmd
	return api.ReadValidateAndOptimize(d.reader(), conf)
}

// ReadOutline returns the document's outline as a tree of existing-outline
// items. Every item holds a handle into the returned arena.
func ReadOutline(d *Document, ids *model.IDAllocator) (outline.Tree, *Arena, error) {
	arena := NewArena()
	ctx, err := d.context(pdfmodel.LISTBOOKMARKS)
	if err != nil {
		return nil, nil, fmt.Errorf("pdfdoc: read outline: %w", err)
	}
	if ctx.Outlines == nil {
		return nil, arena, nil
	}
	if err := ctx.LocateNameTree("Dests", false); err != nil {
		return nil, nil, fmt.Errorf("pdfdoc: read outline: %w", err)
	}
	entries, err := readEntries(ctx, ctx.Outlines.IndirectRefEntry("First"), map[int]bool{})
	if err != nil {
		return nil, nil, fmt.Errorf("pdfdoc: read outline: %w", err)
	}
	return fromEntries(entries, 0, ids, arena), arena, nil
}

func fromEntries(entries []Entry, level int, ids *model.IDAllocator, arena *Arena) outline.Tree {
	var out outline.Tree
	for _, e := range entries {
		page := e.Page - 1
		if page < 0 {
			page = 0
		}
		n := &outline.Node{Item: &model.Item{
			ID:         ids.Next(),
			Level:      level,
			Title:      model.NormalizeTitle(e.Title),
			Target:     model.Target{Page: page, Top: e.Top, Left: e.Left},
			Provenance: model.FromExistingOutline,
			Native:     arena.Add(e),
		}}
		n.Children = fromEntries(e.Children, level+1, ids, arena)
		out = append(out, n)
	}
	return out
}

// ToEntries converts a tree back to outline entries. Items read from the
// document keep their original style.
func ToEntries(tree outline.Tree, arena *Arena) ([]Entry, error) {
	out := make([]Entry, 0, len(tree))
	for _, n := range tree {
		t := n.Item.Target
		e := Entry{
			Title: n.Item.Title,
			Page:  t.Page + 1,
			Top:   t.ViewTop(),
			Left:  t.Left,
		}
		if n.Item.Native != nil {
			orig, err := arena.Take(n.Item.Native)
			if err != nil {
				return nil, err
			}
			e.Bold, e.Italic, e.Color = orig.Bold, orig.Italic, orig.Color
		}
		kids, err := ToEntries(n.Children, arena)
		if err != nil {
			return nil, err
		}
		if len(kids) > 0 {
			e.Children = kids
		}
		out = append(out, e)
	}
	return out, nil
}

// WriteOutline writes a copy of the document with its outline replaced by
// entries, in their given order. An empty list removes the outline.
func WriteOutline(d *Document, entries []Entry, w io.Writer) error {
	ctx, err := d.context(pdfmodel.ADDBOOKMARKS)
	if err != nil {
		return fmt.Errorf("pdfdoc: write outline: %w", err)
	}
	if err := setOutline(ctx, entries); err != nil {
		return fmt.Errorf("pdfdoc: write outline: %w", err)
	}
	if err := api.WriteContext(ctx, w); err != nil {
		return fmt.Errorf("pdfdoc: write outline: %w", err)
	}
	return nil
}

// SaveTemp writes the document with the new outline to a temp file next to
// the original and returns its path.
func SaveTemp(d *Document, entries []Entry) (string, error) {
	dir := filepath.Dir(d.Path)
	base := strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path))
	f, err := os.CreateTemp(dir, base+"-outline-*.pdf")
	if err != nil {
		return "", fmt.Errorf("pdfdoc: %w", err)
	}
	if err := WriteOutline(d, entries, f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("pdfdoc: %w", err)
	}
	return f.Name(), nil
}

// Save writes the document with the new outline to path.
func Save(d *Document, entries []Entry, path string) error {
	var buf bytes.Buffer
	if err := WriteOutline(d, entries, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("pdfdoc: %w", err)
	}
	return nil
}

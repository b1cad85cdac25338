// Package zoterotest creates throwaway Zotero data directories.
package zoterotest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"pdfoutline/internal/model"
)

// Fixture is one item with one stored PDF attachment.
type Fixture struct {
	CiteKey       string
	ItemKey       string
	AttachmentKey string
	FileName      string
	Annotations   []model.Annotation
}

var schema = []string{
	`CREATE TABLE items (itemID INTEGER PRIMARY KEY, key TEXT, libraryID INTEGER)`,
	`CREATE TABLE itemAttachments (itemID INTEGER PRIMARY KEY, parentItemID INTEGER, contentType TEXT, path TEXT)`,
	`CREATE TABLE itemAnnotations (itemID INTEGER PRIMARY KEY, parentItemID INTEGER, text TEXT, comment TEXT, color TEXT, position TEXT)`,
}

// Create writes zotero.sqlite and better-bibtex.sqlite into dir and returns
// the path the attachment is expected at. The PDF itself is not created.
func Create(t testing.TB, dir string, f Fixture) string {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(dir, "zotero.sqlite"))
	if err != nil {
		t.Fatalf("zoterotest: %v", err)
	}
	defer db.Close()
	exec := func(q string, args ...any) {
		t.Helper()
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatalf("zoterotest: %s: %v", q, err)
		}
	}
	for _, q := range schema {
		exec(q)
	}
	exec(`INSERT INTO items VALUES (1, ?, 1), (2, ?, 1)`, f.ItemKey, f.AttachmentKey)
	exec(`INSERT INTO itemAttachments VALUES (2, 1, 'application/pdf', ?)`, "storage:"+f.FileName)
	for i, a := range f.Annotations {
		id := 100 + i
		key := a.Key
		if key == "" {
			key = fmt.Sprintf("ANNOT%03d", i)
		}
		pos := fmt.Sprintf(`{"pageIndex":%d,"rects":[[%g,%g,%g,%g]]}`, a.Page, a.Left, a.Bottom, a.Right, a.Top)
		exec(`INSERT INTO items VALUES (?, ?, 1)`, id, key)
		exec(`INSERT INTO itemAnnotations VALUES (?, 2, ?, ?, ?, ?)`, id, a.Text, a.Comment, a.Color, pos)
	}

	bbt, err := sql.Open("sqlite", filepath.Join(dir, "better-bibtex.sqlite"))
	if err != nil {
		t.Fatalf("zoterotest: %v", err)
	}
	defer bbt.Close()
	if _, err := bbt.Exec(`CREATE TABLE citationkey (itemKey TEXT, libraryID INTEGER, citationKey TEXT)`); err != nil {
		t.Fatalf("zoterotest: %v", err)
	}
	if _, err := bbt.Exec(`INSERT INTO citationkey VALUES (?, 1, ?)`, f.ItemKey, f.CiteKey); err != nil {
		t.Fatalf("zoterotest: %v", err)
	}
	return filepath.Join(dir, "storage", f.AttachmentKey, f.FileName)
}

package zotero

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func mustExec(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
}

func seedLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	main, err := sql.Open("sqlite", filepath.Join(dir, MainDB))
	if err != nil {
		t.Fatalf("open main: %v", err)
	}
	defer main.Close()
	mustExec(t, main,
		`CREATE TABLE items (itemID INTEGER PRIMARY KEY, key TEXT, libraryID INTEGER)`,
		`CREATE TABLE itemAttachments (itemID INTEGER PRIMARY KEY, parentItemID INTEGER, contentType TEXT, path TEXT)`,
		`CREATE TABLE itemAnnotations (itemID INTEGER PRIMARY KEY, parentItemID INTEGER, text TEXT, comment TEXT, color TEXT, position TEXT)`,
		`INSERT INTO items VALUES (1, 'PAPER1', 1), (2, 'ATT1', 1), (3, 'ATT2', 1), (4, 'HTML1', 1),
			(10, 'AN10', 1), (11, 'AN11', 1), (12, 'AN12', 1), (13, 'AN13', 1),
			(20, 'DUP', 1), (21, 'DUP', 2)`,
		`INSERT INTO itemAttachments VALUES
			(2, 1, 'application/pdf', 'storage:paper.pdf'),
			(3, 1, 'application/pdf', '/abs/linked.pdf'),
			(4, 1, 'text/html', 'storage:snapshot.html')`,
		`INSERT INTO itemAnnotations VALUES
			(10, 2, 'Second', '', '#ffd400', '{"pageIndex":0,"rects":[[50,600,300,620]]}'),
			(11, 2, 'First', 'note', '#ffd400', '{"pageIndex":0,"rects":[[50,700,300,720]]}'),
			(12, 2, 'Later page', NULL, '#5fb236', '{"pageIndex":3,"rects":[[10,100,20,110]]}'),
			(13, 2, 'Ink', NULL, '#000000', '{"pageIndex":1}')`,
	)

	bbt, err := sql.Open("sqlite", filepath.Join(dir, BetterBibTeXDB))
	if err != nil {
		t.Fatalf("open bbt: %v", err)
	}
	defer bbt.Close()
	mustExec(t, bbt,
		`CREATE TABLE citationkey (itemKey TEXT, libraryID INTEGER, citationKey TEXT)`,
		`INSERT INTO citationkey VALUES ('PAPER1', 1, 'doe2020'), ('DUP', 1, 'dup2021'), ('DUP', 2, 'dup2021')`,
	)
	return dir
}

func openSeeded(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(context.Background(), seedLibrary(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func TestLookupItem(t *testing.T) {
	t.Parallel()
	lib := openSeeded(t)
	ctx := context.Background()

	it, err := lib.LookupItem(ctx, "doe2020")
	if err != nil {
		t.Fatalf("LookupItem: %v", err)
	}
	if it.ID != 1 || it.Key != "PAPER1" || it.LibraryID != 1 {
		t.Fatalf("unexpected item %+v", it)
	}

	_, err = lib.LookupItem(ctx, "nobody1999")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, err = lib.LookupItem(ctx, "dup2021")
	var amb *AmbiguousError
	if !errors.As(err, &amb) || amb.Count != 2 {
		t.Fatalf("expected AmbiguousError with 2 matches, got %v", err)
	}
}

func TestAttachmentsAndResolvePath(t *testing.T) {
	t.Parallel()
	lib := openSeeded(t)

	atts, err := lib.Attachments(context.Background(), 1)
	if err != nil {
		t.Fatalf("Attachments: %v", err)
	}
	if len(atts) != 2 {
		t.Fatalf("expected 2 pdf attachments, got %+v", atts)
	}
	if atts[0].Key != "ATT1" || atts[0].Label() != "2: storage:paper.pdf" {
		t.Fatalf("unexpected first attachment %+v", atts[0])
	}

	p, err := lib.ResolvePath(atts[0])
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if want := filepath.Join(lib.DataDir, "storage", "ATT1", "paper.pdf"); p != want {
		t.Fatalf("path=%q, want %q", p, want)
	}
	if p, _ := lib.ResolvePath(atts[1]); p != "/abs/linked.pdf" {
		t.Fatalf("linked path=%q", p)
	}
	if _, err := lib.ResolvePath(Attachment{Key: "X"}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestAnnotations_SortedAndDecoded(t *testing.T) {
	t.Parallel()
	lib := openSeeded(t)

	annots, err := lib.Annotations(context.Background(), 2)
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if len(annots) != 3 {
		t.Fatalf("expected 3 annotations (ink skipped), got %+v", annots)
	}
	var got []string
	for _, a := range annots {
		got = append(got, a.Text)
	}
	if got[0] != "First" || got[1] != "Second" || got[2] != "Later page" {
		t.Fatalf("unexpected order %v", got)
	}
	first := annots[0]
	if first.Key != "AN11" || first.Comment != "note" || first.Top != 720 || first.Left != 50 || first.Bottom != 700 {
		t.Fatalf("unexpected decode %+v", first)
	}
	if annots[2].Page != 3 || annots[2].Comment != "" {
		t.Fatalf("unexpected decode %+v", annots[2])
	}
}

func TestOpen_MissingDatabase(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), t.TempDir()); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
}

func TestOpen_ExpandsHome(t *testing.T) {
	dir := seedLibrary(t)
	t.Setenv("HOME", filepath.Dir(dir))

	lib, err := Open(context.Background(), "~/"+filepath.Base(dir))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer lib.Close()
	if lib.DataDir != dir {
		t.Fatalf("DataDir=%q, want %q", lib.DataDir, dir)
	}
}

func TestParsePosition(t *testing.T) {
	t.Parallel()
	page, rect, err := ParsePosition(`{"pageIndex":2,"rects":[[1,2,3,4],[5,6,7,8]]}`)
	if err != nil || page != 2 || rect != [4]float64{1, 2, 3, 4} {
		t.Fatalf("got %d %v %v", page, rect, err)
	}
	if _, _, err := ParsePosition(`not json`); err == nil {
		t.Fatalf("expected error")
	}
}

// Package zotero reads items, attachments and annotations from a local
// Zotero data directory. The databases are opened read-only; Zotero may be
// running while we read.
package zotero

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pdfoutline/internal/config"
	"pdfoutline/internal/model"

	_ "modernc.org/sqlite"
)

const (
	MainDB         = "zotero.sqlite"
	BetterBibTeXDB = "better-bibtex.sqlite"

	pdfContentType = "application/pdf"
	storagePrefix  = "storage:"
)

// NotFoundError means a lookup matched nothing.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("zotero: %s %q not found", e.Kind, e.Key)
}

// AmbiguousError means a citation key maps to more than one item.
type AmbiguousError struct {
	CiteKey string
	Count   int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("zotero: citation key %q matches %d items", e.CiteKey, e.Count)
}

type Item struct {
	ID        int64  `json:"id" yaml:"id"`
	Key       string `json:"key" yaml:"key"`
	LibraryID int64  `json:"libraryID" yaml:"libraryID"`
}

type Attachment struct {
	ID   int64  `json:"id" yaml:"id"`
	Key  string `json:"key" yaml:"key"`
	Path string `json:"path" yaml:"path"`
}

// Label is the one-line description shown when choosing an attachment.
func (a Attachment) Label() string {
	return fmt.Sprintf("%d: %s", a.ID, a.Path)
}

type Library struct {
	DataDir string
	Logger  *slog.Logger

	db *sql.DB
}

// Open opens the Zotero database in dataDir and attaches the Better BibTeX
// citation key database.
func Open(ctx context.Context, dataDir string) (*Library, error) {
	dataDir = config.ExpandHome(dataDir)
	mainPath := filepath.Join(dataDir, MainDB)
	bbtPath := filepath.Join(dataDir, BetterBibTeXDB)
	for _, p := range []string{mainPath, bbtPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("zotero: %w", err)
		}
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", readOnlyURI(mainPath))
	if err != nil {
		return nil, err
	}
	// ATTACH is per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `ATTACH DATABASE ? AS betterbibtex`, readOnlyURI(bbtPath)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("zotero: attach %s: %w", BetterBibTeXDB, err)
	}
	return &Library{DataDir: dataDir, Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), db: db}, nil
}

func (l *Library) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// LookupItem maps a Better BibTeX citation key to its Zotero item.
func (l *Library) LookupItem(ctx context.Context, citeKey string) (Item, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT i.itemID, c.itemKey, c.libraryID
		FROM betterbibtex.citationkey c
		JOIN items i ON i.key = c.itemKey AND i.libraryID = c.libraryID
		WHERE c.citationKey = ?`, citeKey)
	if err != nil {
		return Item{}, fmt.Errorf("zotero: lookup %q: %w", citeKey, err)
	}
	defer rows.Close()

	var found []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Key, &it.LibraryID); err != nil {
			return Item{}, err
		}
		found = append(found, it)
	}
	if err := rows.Err(); err != nil {
		return Item{}, err
	}
	switch len(found) {
	case 0:
		return Item{}, &NotFoundError{Kind: "citation key", Key: citeKey}
	case 1:
		l.Logger.Debug("item found", "citekey", citeKey, "item_id", found[0].ID, "item_key", found[0].Key)
		return found[0], nil
	default:
		return Item{}, &AmbiguousError{CiteKey: citeKey, Count: len(found)}
	}
}

// Attachments lists the PDF attachments of an item.
func (l *Library) Attachments(ctx context.Context, itemID int64) ([]Attachment, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT a.itemID, i.key, COALESCE(a.path, '')
		FROM itemAttachments a
		JOIN items i ON i.itemID = a.itemID
		WHERE a.parentItemID = ? AND a.contentType = ?
		ORDER BY a.itemID`, itemID, pdfContentType)
	if err != nil {
		return nil, fmt.Errorf("zotero: attachments of %d: %w", itemID, err)
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.Key, &a.Path); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ResolvePath returns the file system path of an attachment. Stored files
// live under storage/<key>/; linked files carry their own path.
func (l *Library) ResolvePath(a Attachment) (string, error) {
	if name, ok := strings.CutPrefix(a.Path, storagePrefix); ok {
		if name == "" {
			return "", &NotFoundError{Kind: "attachment file", Key: a.Key}
		}
		return filepath.Join(l.DataDir, "storage", a.Key, name), nil
	}
	if a.Path == "" {
		return "", &NotFoundError{Kind: "attachment file", Key: a.Key}
	}
	return a.Path, nil
}

type position struct {
	PageIndex int         `json:"pageIndex"`
	Rects     [][]float64 `json:"rects"`
}

// ParsePosition decodes Zotero's annotation position JSON. Only the first
// rectangle is used.
func ParsePosition(raw string) (page int, rect [4]float64, err error) {
	var p position
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return 0, rect, fmt.Errorf("zotero: annotation position: %w", err)
	}
	if len(p.Rects) == 0 || len(p.Rects[0]) < 4 {
		return 0, rect, errors.New("zotero: annotation position: no rectangle")
	}
	copy(rect[:], p.Rects[0][:4])
	return p.PageIndex, rect, nil
}

// Annotations returns the annotations of an attachment in reading order.
// Annotations without a usable position (ink, notes on non-PDF pages) are
// skipped.
func (l *Library) Annotations(ctx context.Context, attachmentID int64) ([]model.Annotation, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT i.key, COALESCE(a.text, ''), COALESCE(a.comment, ''), COALESCE(a.color, ''), a.position
		FROM itemAnnotations a
		JOIN items i ON i.itemID = a.itemID
		WHERE a.parentItemID = ?`, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("zotero: annotations of %d: %w", attachmentID, err)
	}
	defer rows.Close()

	var out []model.Annotation
	for rows.Next() {
		var (
			a   model.Annotation
			pos string
		)
		if err := rows.Scan(&a.Key, &a.Text, &a.Comment, &a.Color, &pos); err != nil {
			return nil, err
		}
		page, rect, err := ParsePosition(pos)
		if err != nil {
			l.Logger.Warn("skipping annotation", "key", a.Key, "err", err)
			continue
		}
		a.Page = page
		a.Left, a.Bottom, a.Right, a.Top = rect[0], rect[1], rect[2], rect[3]
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	model.SortAnnotations(out)
	return out, nil
}

func readOnlyURI(path string) string {
	esc := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + esc + "?mode=ro"
}

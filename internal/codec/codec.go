// Package codec converts outline items to and from the plain-text notation
// the user edits:
//
//	# Chapter title [id=1, p=3, src=annotation]
//	## Nested title [id=2, p=4, src=outline]
//
// The number of markers is the level plus one. Only the id field of the
// metadata bracket is read back; the other fields are for the reader.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"pdfoutline/internal/model"
)

const (
	Marker    = '#'
	Separator = ' '

	KeyID         = "id"
	KeyPage       = "p"
	KeyProvenance = "src"
)

// Encode writes one line per item, in order.
func Encode(items []*model.Item) string {
	var b strings.Builder
	for _, it := range items {
		level := it.Level
		if level < 0 {
			level = 0
		}
		b.WriteString(strings.Repeat(string(Marker), level+1))
		b.WriteByte(Separator)
		b.WriteString(model.NormalizeTitle(it.Title))
		b.WriteString(" [")
		b.WriteString(metadata(it))
		b.WriteString("]\n")
	}
	return b.String()
}

func metadata(it *model.Item) string {
	fields := []string{
		KeyID + "=" + strconv.Itoa(it.ID),
		KeyPage + "=" + strconv.Itoa(it.Target.Page+1),
		KeyProvenance + "=" + it.Provenance.String(),
	}
	return strings.Join(fields, ", ")
}

type line struct {
	no    int
	level int
	title string
	id    int
}

// Decode parses edited text back into items, looking each id up in byID.
// Line order is the new item order and ids missing from the text are
// dropped. Nothing is modified unless the whole text is valid.
func Decode(text string, byID map[int]*model.Item) ([]*model.Item, error) {
	var lines []line
	seen := map[int]int{}

	for i, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		ln, err := parseLine(i+1, s)
		if err != nil {
			return nil, err
		}
		if _, ok := byID[ln.id]; !ok {
			return nil, &ReferenceError{Line: ln.no, ID: ln.id, Reason: "unknown id"}
		}
		if first, dup := seen[ln.id]; dup {
			return nil, &ReferenceError{Line: ln.no, ID: ln.id, Reason: fmt.Sprintf("duplicate id (first used on line %d)", first)}
		}
		seen[ln.id] = ln.no
		lines = append(lines, ln)
	}

	out := make([]*model.Item, 0, len(lines))
	for _, ln := range lines {
		out = append(out, model.Retitle(byID[ln.id], ln.level, ln.title))
	}
	return out, nil
}

func parseLine(no int, s string) (line, error) {
	header, rest, ok := strings.Cut(s, string(Separator))
	if !ok {
		return line{}, &SyntaxError{Line: no, Text: s, Reason: "missing separator after header"}
	}
	if header == "" || strings.Trim(header, string(Marker)) != "" {
		return line{}, &SyntaxError{Line: no, Text: s, Reason: "header must be a run of '" + string(Marker) + "'"}
	}

	open := strings.LastIndexByte(rest, '[')
	if open < 0 {
		return line{}, &SyntaxError{Line: no, Text: s, Reason: "missing metadata bracket"}
	}
	meta := strings.TrimSpace(rest[open+1:])
	if !strings.HasSuffix(meta, "]") {
		return line{}, &SyntaxError{Line: no, Text: s, Reason: "unterminated metadata bracket"}
	}
	meta = strings.TrimSuffix(meta, "]")

	id, err := parseID(meta)
	if err != nil {
		return line{}, &SyntaxError{Line: no, Text: s, Reason: err.Error()}
	}

	return line{
		no:    no,
		level: len(header) - 1,
		title: strings.TrimSpace(rest[:open]),
		id:    id,
	}, nil
}

func parseID(meta string) (int, error) {
	for _, field := range strings.Split(meta, ",") {
		k, v, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(k) != KeyID {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || id < 0 {
			return 0, fmt.Errorf("invalid id %q", strings.TrimSpace(v))
		}
		return id, nil
	}
	return 0, fmt.Errorf("missing %s= field", KeyID)
}

package model

import "strings"

type Provenance int

const (
	FromAnnotation Provenance = iota
	FromExistingOutline
)

func (p Provenance) String() string {
	switch p {
	case FromExistingOutline:
		return "outline"
	default:
		return "annotation"
	}
}

// Target is a navigation destination. Page is 0-based. Pad is extra room
// above Top that a viewer should keep visible; it does not affect ordering.
type Target struct {
	Page int      `json:"page"`
	Top  *float64 `json:"top,omitempty"`
	Left *float64 `json:"left,omitempty"`
	Pad  float64  `json:"-"`
}

// ViewTop is the vertical offset a destination should scroll to.
func (t Target) ViewTop() *float64 {
	if t.Top == nil {
		return nil
	}
	return Float(*t.Top + t.Pad)
}

// NativeRef points into the arena that owns a bookmark read from a document.
// It is opaque to everything but the document layer.
type NativeRef struct {
	Slot int `json:"slot"`
}

type Item struct {
	ID         int        `json:"id"`
	Level      int        `json:"level"`
	Title      string     `json:"title"`
	Target     Target     `json:"target"`
	Provenance Provenance `json:"-"`
	Native     *NativeRef `json:"-"`

	// Informational, carried over from the annotation.
	Color   string `json:"color,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Retitle sets level and title in place. Identity and target never change.
func Retitle(it *Item, level int, title string) *Item {
	it.Level = level
	it.Title = title
	return it
}

// ByID indexes items by their session id.
func ByID(items []*Item) map[int]*Item {
	out := make(map[int]*Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}

// NormalizeTitle folds line breaks and tabs into single spaces.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func Float(v float64) *float64 {
	return &v
}

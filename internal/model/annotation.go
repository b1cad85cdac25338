package model

import "sort"

// Annotation is one highlight as stored by the reference manager.
// Coordinates are PDF user space of the first highlighted rectangle.
type Annotation struct {
	Key     string  `json:"key" yaml:"key"`
	Text    string  `json:"text" yaml:"text"`
	Comment string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Color   string  `json:"color" yaml:"color"`
	Page    int     `json:"page" yaml:"page"`
	Left    float64 `json:"left" yaml:"left"`
	Bottom  float64 `json:"bottom" yaml:"bottom"`
	Right   float64 `json:"right" yaml:"right"`
	Top     float64 `json:"top" yaml:"top"`
}

// Item converts the annotation into a root-level outline item. The target
// keeps half the highlight height visible above it.
func (a Annotation) Item(id int) *Item {
	return &Item{
		ID:         id,
		Level:      0,
		Title:      NormalizeTitle(a.Text),
		Target:     Target{Page: a.Page, Top: Float(a.Top), Left: Float(a.Left), Pad: (a.Top - a.Bottom) / 2},
		Provenance: FromAnnotation,
		Color:      a.Color,
		Comment:    a.Comment,
	}
}

func (a Annotation) positionKey() Key {
	return Key{Page: a.Page, HasTop: true, Top: a.Top, HasLeft: true, Left: a.Left}
}

// SortAnnotations orders annotations by reading position, keeping the input
// order for equal positions.
func SortAnnotations(annots []Annotation) {
	sort.SliceStable(annots, func(i, j int) bool {
		return annots[i].positionKey().Compare(annots[j].positionKey()) < 0
	})
}

type ColorGroup struct {
	Color       string
	Annotations []Annotation
}

// GroupByColor buckets annotations by color. Groups appear in the order their
// color is first seen; annotations keep their relative order.
func GroupByColor(annots []Annotation) []ColorGroup {
	var out []ColorGroup
	idx := map[string]int{}
	for _, a := range annots {
		i, ok := idx[a.Color]
		if !ok {
			i = len(out)
			idx[a.Color] = i
			out = append(out, ColorGroup{Color: a.Color})
		}
		out[i].Annotations = append(out[i].Annotations, a)
	}
	return out
}

// ItemsFromAnnotations allocates ids in input order.
func ItemsFromAnnotations(annots []Annotation, ids *IDAllocator) []*Item {
	out := make([]*Item, 0, len(annots))
	for _, a := range annots {
		out = append(out, a.Item(ids.Next()))
	}
	return out
}

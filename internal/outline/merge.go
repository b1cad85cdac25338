package outline

import (
	"sort"

	"pdfoutline/internal/model"
)

// Merge folds items flattened from an existing outline into freshly
// generated annotation items. The result is ordered by reading position;
// at equal positions existing outline entries come first so earlier
// curation keeps its place. Levels are then clamped so the sequence never
// skips a nesting level.
func Merge(annotated, existing []*model.Item) []*model.Item {
	out := make([]*model.Item, 0, len(annotated)+len(existing))
	out = append(out, existing...)
	out = append(out, annotated...)

	sort.SliceStable(out, func(i, j int) bool {
		c := model.PositionKey(out[i]).Compare(model.PositionKey(out[j]))
		if c != 0 {
			return c < 0
		}
		return provenanceRank(out[i].Provenance) < provenanceRank(out[j].Provenance)
	})

	Normalize(out)
	return out
}

func provenanceRank(p model.Provenance) int {
	if p == model.FromExistingOutline {
		return 0
	}
	return 1
}

// Normalize clamps levels in place: the first item becomes level 0 and each
// following item is at most one level deeper than its predecessor.
func Normalize(items []*model.Item) {
	prev := -1
	for _, it := range items {
		if it.Level > prev+1 {
			it.Level = prev + 1
		}
		if it.Level < 0 {
			it.Level = 0
		}
		prev = it.Level
	}
}

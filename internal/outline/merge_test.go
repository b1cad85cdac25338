package outline

import (
	"reflect"
	"testing"

	"pdfoutline/internal/model"
)

func TestMerge_OrdersByPositionExistingFirstOnTies(t *testing.T) {
	t.Parallel()

	annotated := []*model.Item{
		{ID: 10, Title: "highlight p2", Provenance: model.FromAnnotation, Target: model.Target{Page: 2, Top: model.Float(400), Left: model.Float(50)}},
		{ID: 11, Title: "highlight p0", Provenance: model.FromAnnotation, Target: model.Target{Page: 0, Top: model.Float(700), Left: model.Float(50)}},
		{ID: 12, Title: "tie", Provenance: model.FromAnnotation, Target: model.Target{Page: 1}},
	}
	existing := []*model.Item{
		{ID: 1, Title: "Chapter 1", Provenance: model.FromExistingOutline, Target: model.Target{Page: 0}},
		{ID: 2, Title: "Chapter 2", Provenance: model.FromExistingOutline, Target: model.Target{Page: 1}},
		{ID: 3, Title: "Section 2.1", Level: 1, Provenance: model.FromExistingOutline, Target: model.Target{Page: 2}},
	}

	got := Merge(annotated, existing)
	if want := []int{1, 11, 2, 12, 3, 10}; !reflect.DeepEqual(idsOf(got), want) {
		t.Fatalf("order=%v, want %v", idsOf(got), want)
	}
	if err := Validate(got); err != nil {
		t.Fatalf("merged outline not well-nested: %v", err)
	}
}

func TestMerge_ClampsSkippedLevels(t *testing.T) {
	t.Parallel()

	existing := []*model.Item{
		{ID: 1, Level: 2, Provenance: model.FromExistingOutline, Target: model.Target{Page: 0}},
		{ID: 2, Level: 0, Provenance: model.FromExistingOutline, Target: model.Target{Page: 1}},
		{ID: 3, Level: 3, Provenance: model.FromExistingOutline, Target: model.Target{Page: 1}},
	}
	got := Merge(nil, existing)
	if !reflect.DeepEqual(levelsOf(got), []int{0, 0, 1}) {
		t.Fatalf("levels=%v", levelsOf(got))
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	t.Parallel()

	if got := Merge(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty merge, got %v", got)
	}
}

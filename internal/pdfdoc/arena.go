package pdfdoc

import (
	"errors"
	"fmt"

	"pdfoutline/internal/model"
)

var ErrHandleTaken = errors.New("pdfdoc: outline handle already taken")

// Arena owns the outline entries read from a document. Items refer to them by
// slot; rebuilding the outline moves each entry out exactly once.
type Arena struct {
	slots []*Entry
}

func NewArena() *Arena { return &Arena{} }

// Add stores e and returns its handle. Children are not kept.
func (a *Arena) Add(e Entry) *model.NativeRef {
	e.Children = nil
	a.slots = append(a.slots, &e)
	return &model.NativeRef{Slot: len(a.slots) - 1}
}

// Take moves the entry out of its slot.
func (a *Arena) Take(ref *model.NativeRef) (*Entry, error) {
	if a == nil || ref == nil || ref.Slot < 0 || ref.Slot >= len(a.slots) {
		return nil, fmt.Errorf("pdfdoc: unknown outline handle %v", ref)
	}
	e := a.slots[ref.Slot]
	if e == nil {
		return nil, fmt.Errorf("%w (slot %d)", ErrHandleTaken, ref.Slot)
	}
	a.slots[ref.Slot] = nil
	return e, nil
}

// Len is the number of slots still holding an entry.
func (a *Arena) Len() int {
	n := 0
	for _, s := range a.slots {
		if s != nil {
			n++
		}
	}
	return n
}

package outline

import (
	"errors"
	"fmt"

	"pdfoutline/internal/model"
)

var (
	ErrRootLevel    = errors.New("item outside the root level")
	ErrSkippedLevel = errors.New("skipped nesting level")
	ErrOrphanChild  = errors.New("nested item without a parent")
)

// StructuralError reports a flat sequence that cannot be turned into a tree.
// Index is the 0-based position of the offending item.
type StructuralError struct {
	Err   error
	Index int
	Item  *model.Item
	Want  int
}

func (e *StructuralError) Error() string {
	if e.Item == nil {
		return fmt.Sprintf("outline: %v at entry %d", e.Err, e.Index+1)
	}
	return fmt.Sprintf("outline: %v at entry %d %q (level %d, expected at most %d)",
		e.Err, e.Index+1, e.Item.Title, e.Item.Level, e.Want)
}

func (e *StructuralError) Unwrap() error { return e.Err }

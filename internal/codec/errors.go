package codec

import "fmt"

// SyntaxError is a line that does not follow the notation.
// Line is 1-based.
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ReferenceError is a well-formed line whose id cannot be used.
type ReferenceError struct {
	Line   int
	ID     int
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("line %d: %s: id=%d", e.Line, e.Reason, e.ID)
}

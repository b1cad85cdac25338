package model

// AbsentOffset is the ordering sentinel shared by every item without an
// on-page offset. It sorts before any real offset on the same page.
const AbsentOffset = -1

// Key orders items by reading position: page ascending, then top
// descending (PDF user space grows upwards), then left ascending.
type Key struct {
	Page    int
	HasTop  bool
	Top     float64
	HasLeft bool
	Left    float64
}

func PositionKey(it *Item) Key {
	k := Key{Page: it.Target.Page, Top: AbsentOffset, Left: AbsentOffset}
	if it.Target.Top != nil {
		k.HasTop = true
		k.Top = *it.Target.Top
	}
	if it.Target.Left != nil {
		k.HasLeft = true
		k.Left = *it.Target.Left
	}
	return k
}

// Compare returns -1, 0 or 1.
func (k Key) Compare(o Key) int {
	if k.Page != o.Page {
		return cmpInt(k.Page, o.Page)
	}
	if c := cmpAbsent(k.HasTop, o.HasTop); c != 0 {
		return c
	}
	if k.HasTop && k.Top != o.Top {
		// Higher on the page reads first.
		if k.Top > o.Top {
			return -1
		}
		return 1
	}
	if c := cmpAbsent(k.HasLeft, o.HasLeft); c != 0 {
		return c
	}
	if k.HasLeft && k.Left != o.Left {
		if k.Left < o.Left {
			return -1
		}
		return 1
	}
	return 0
}

func cmpAbsent(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

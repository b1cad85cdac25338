package model

// IDAllocator hands out session ids. Values are never reused within one
// allocator, even after the item carrying them is dropped.
type IDAllocator struct {
	next int
}

func (a *IDAllocator) Next() int {
	id := a.next
	a.next++
	return id
}

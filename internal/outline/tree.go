package outline

import "pdfoutline/internal/model"

// Node is one entry of an outline forest. Trees are only produced by
// BuildTree; they are rebuilt from the flat list on every write-back.
type Node struct {
	Item     *model.Item
	Children []*Node
}

type Tree []*Node

// builder consumes items front to back. Each build call consumes a prefix
// of the remaining items and hands control back at the first item that is
// shallower than its level.
type builder struct {
	items []*model.Item
	pos   int
}

// BuildTree nests a flat, leveled sequence. The first item must sit at
// startLevel and no item may be more than one level deeper than the item
// before it.
func BuildTree(items []*model.Item, startLevel int) (Tree, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if items[0].Level != startLevel {
		return nil, &StructuralError{Err: ErrRootLevel, Index: 0, Item: items[0], Want: startLevel}
	}

	b := &builder{items: items}
	tree, err := b.build(startLevel)
	if err != nil {
		return nil, err
	}
	if b.pos < len(items) {
		return nil, &StructuralError{Err: ErrRootLevel, Index: b.pos, Item: items[b.pos], Want: startLevel}
	}
	return tree, nil
}

func (b *builder) build(level int) (Tree, error) {
	var out Tree
	for b.pos < len(b.items) {
		it := b.items[b.pos]
		switch {
		case it.Level == level:
			out = append(out, &Node{Item: it})
			b.pos++
		case it.Level == level+1:
			if len(out) == 0 {
				return nil, &StructuralError{Err: ErrOrphanChild, Index: b.pos, Item: it, Want: level}
			}
			children, err := b.build(level + 1)
			if err != nil {
				return nil, err
			}
			parent := out[len(out)-1]
			parent.Children = append(parent.Children, children...)
		case it.Level < level:
			return out, nil
		default:
			return nil, &StructuralError{Err: ErrSkippedLevel, Index: b.pos, Item: it, Want: level + 1}
		}
	}
	return out, nil
}

// Flatten walks the tree in pre-order and sets each item's Level to its
// depth, so BuildTree(Flatten(t), 0) reproduces t.
func Flatten(tree Tree) []*model.Item {
	var out []*model.Item
	var walk func(nodes Tree, depth int)
	walk = func(nodes Tree, depth int) {
		for _, n := range nodes {
			n.Item.Level = depth
			out = append(out, n.Item)
			walk(n.Children, depth+1)
		}
	}
	walk(tree, 0)
	return out
}

// Validate reports whether items form a well-nested outline.
func Validate(items []*model.Item) error {
	_, err := BuildTree(items, 0)
	return err
}

// Walk visits nodes in pre-order with their depth.
func (t Tree) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes Tree, depth int)
	walk = func(nodes Tree, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t, 0)
}

// Len counts all nodes.
func (t Tree) Len() int {
	n := 0
	t.Walk(func(*Node, int) { n++ })
	return n
}

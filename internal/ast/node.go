package ast

import "slices"

// PathKey is a single step on a location path: either a member name or an
// array index, per spec §3's "Path key".
type PathKey struct {
	Name   string
	Index  int
	IsName bool
}

// NameKey returns a PathKey for an object member name.
func NameKey(name string) PathKey { return PathKey{Name: name, IsName: true} }

// IndexKey returns a PathKey for an array index.
func IndexKey(idx int) PathKey { return PathKey{Index: idx} }

// frame is one link in a Node's ancestor chain: the value one level up, the
// key leading from it down to the child, and the next frame up. Frames are
// never mutated once created, so sibling Nodes created from the same parent
// share the same upward chain — spec §9's recommended "shared suffix list"
// representation, avoiding quadratic path allocation during recursive
// descent.
type frame struct {
	value any
	key   PathKey
	prev  *frame
}

// Node pairs a JSON value with its ancestor chain, implementing spec §3's
// EvalContext. The zero value is a root node (no parent).
type Node struct {
	Value       any
	PayloadType string // "" (value) or "property"
	anc         *frame
}

// ValueNode wraps a bare value as a root Node (no parent), for evaluation
// contexts — such as filter sub-queries — that only need Value, never
// location.
func ValueNode(v any) Node { return Node{Value: v} }

// HasParent reports whether n is not a root node.
func (n Node) HasParent() bool { return n.anc != nil }

// Parent returns the value containing n, or nil if n is a root node.
func (n Node) Parent() any {
	if n.anc == nil {
		return nil
	}
	return n.anc.value
}

// ParentProperty returns the key from Parent() to n's value, and true, or
// the zero PathKey and false if n is a root node.
func (n Node) ParentProperty() (PathKey, bool) {
	if n.anc == nil {
		return PathKey{}, false
	}
	return n.anc.key, true
}

// Path returns the ordered sequence of PathKeys from the document root to
// n's value.
func (n Node) Path() []PathKey {
	var keys []PathKey
	for f := n.anc; f != nil; f = f.prev {
		keys = append(keys, f.key)
	}
	slices.Reverse(keys)
	return keys
}

// Ancestors returns the values from the document root down to n's immediate
// parent, outermost first. It is empty for a root node.
func (n Node) Ancestors() []any {
	var vals []any
	for f := n.anc; f != nil; f = f.prev {
		vals = append(vals, f.value)
	}
	slices.Reverse(vals)
	return vals
}

// Child returns a new Node for value v reached from n via key.
func (n Node) Child(v any, key PathKey) Node {
	return Node{Value: v, anc: &frame{value: n.Value, key: key, prev: n.anc}}
}

// AsParent returns the Node for n's parent and true, or the zero Node and
// false if n is a root node. The returned Node's own parent is n's
// grandparent, matching the Parent (^) segment's "pop one level" contract.
func (n Node) AsParent() (Node, bool) {
	if n.anc == nil {
		return Node{}, false
	}
	return Node{Value: n.anc.value, anc: n.anc.prev}, true
}

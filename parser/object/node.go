// Package object implements the schema-free object tree used when no
// specific bindings are registered for a block.
// node.go defines the tree model and its read accessors.
package object

import (
	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
)

// Kind classifies a Value.
type Kind int

const (
	ScalarKind Kind = iota
	ListKind
	BlockKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case ListKind:
		return "list"
	case BlockKind:
		return "block"
	default:
		return "unknown"
	}
}

// Scalar is one atomic token. Quoted records whether it was written as a
// quoted string so the serializer can keep it that way.
type Scalar struct {
	Text   string
	Quoted bool
}

// Value is a scalar, a bare list of two or more scalars, or a nested block.
type Value struct {
	kind   Kind
	scalar Scalar
	list   []Scalar
	block  *Node
}

// NewScalar returns a scalar value.
func NewScalar(text string, quoted bool) Value {
	return Value{kind: ScalarKind, scalar: Scalar{Text: text, Quoted: quoted}}
}

// NewList returns a list value. A single item is stored as a scalar.
func NewList(items []Scalar) Value {
	if len(items) == 1 {
		return Value{kind: ScalarKind, scalar: items[0]}
	}
	return Value{kind: ListKind, list: append([]Scalar(nil), items...)}
}

// NewBlock returns a block value.
func NewBlock(n *Node) Value {
	return Value{kind: BlockKind, block: n}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar of a scalar value.
func (v Value) Scalar() (Scalar, bool) {
	return v.scalar, v.kind == ScalarKind
}

// Text returns the text of a scalar value and "" for any other kind.
func (v Value) Text() string {
	if v.kind != ScalarKind {
		return ""
	}
	return v.scalar.Text
}

// List returns the items of a list value.
func (v Value) List() []Scalar {
	if v.kind != ListKind {
		return nil
	}
	return append([]Scalar(nil), v.list...)
}

// Block returns the node of a block value, or nil.
func (v Value) Block() *Node {
	if v.kind != BlockKind {
		return nil
	}
	return v.block
}

// Tokens flattens a value into scalar texts: a scalar gives one token, a
// list its items, and a block its anonymous scalar entries.
func (v Value) Tokens() []string {
	switch v.kind {
	case ScalarKind:
		return []string{v.scalar.Text}
	case ListKind:
		out := make([]string, len(v.list))
		for i, item := range v.list {
			out[i] = item.Text
		}
		return out
	default:
		return v.block.Tokens()
	}
}

// Entry is one statement of a block. Anonymous items such as the tokens of
// "{ a b c }" have an empty Key.
type Entry struct {
	Key   string
	Value Value
	Pos   perrors.Location
}

// Node is an ordered block of entries. Keys may repeat; every occurrence is
// kept in source order. A Node is only appended to while it is being parsed
// and is read-only afterwards.
type Node struct {
	entries []Entry
}

func (n *Node) add(e Entry) {
	n.entries = append(n.entries, e)
}

// Len returns the number of entries.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.entries)
}

// Entry returns the i-th entry, or the zero Entry when i is not in
// [0, Len()).
func (n *Node) Entry(i int) Entry {
	if i < 0 || i >= n.Len() {
		return Entry{}
	}
	return n.entries[i]
}

// Entries returns a copy of all entries in order.
func (n *Node) Entries() []Entry {
	if n == nil {
		return nil
	}
	return append([]Entry(nil), n.entries...)
}

// Keys returns the distinct non-empty keys in order of first appearance.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for _, e := range n.entries {
		if e.Key == "" || seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		keys = append(keys, e.Key)
	}
	return keys
}

// Has reports whether key occurs at least once.
func (n *Node) Has(key string) bool {
	_, ok := n.Value(key)
	return ok
}

// Values returns every value assigned to key, in order.
func (n *Node) Values(key string) []Value {
	if n == nil {
		return nil
	}
	var out []Value
	for _, e := range n.entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Value returns the first value assigned to key.
func (n *Node) Value(key string) (Value, bool) {
	if n == nil {
		return Value{}, false
	}
	for _, e := range n.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Leaf returns the text of the first scalar assigned to key, or "".
func (n *Node) Leaf(key string) string {
	v, _ := n.Value(key)
	return v.Text()
}

// Leaves returns the texts of every scalar assigned to key.
func (n *Node) Leaves(key string) []string {
	var out []string
	for _, v := range n.Values(key) {
		if v.kind == ScalarKind {
			out = append(out, v.scalar.Text)
		}
	}
	return out
}

// Child returns the first block assigned to key, or nil.
func (n *Node) Child(key string) *Node {
	for _, v := range n.Values(key) {
		if v.kind == BlockKind {
			return v.block
		}
	}
	return nil
}

// Children returns every block assigned to key.
func (n *Node) Children(key string) []*Node {
	var out []*Node
	for _, v := range n.Values(key) {
		if v.kind == BlockKind {
			out = append(out, v.block)
		}
	}
	return out
}

// Tokens returns the anonymous scalar entries of the node, which is how a
// token list such as "{ SWE DAN NOR }" is represented.
func (n *Node) Tokens() []string {
	if n == nil {
		return nil
	}
	var out []string
	for _, e := range n.entries {
		if e.Key == "" && e.Value.kind == ScalarKind {
			out = append(out, e.Value.scalar.Text)
		}
	}
	return out
}

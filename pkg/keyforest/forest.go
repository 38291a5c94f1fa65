package keyforest

import (
	"fmt"
	"sort"
	"strconv"
)

// NodeKind distinguishes the two forest node shapes from spec §3.
type NodeKind int

const (
	KindInternal NodeKind = iota
	KindLeaf
)

// Node is either an Internal node (ordered children keyed by segment, with
// an IsArray flag) or a Leaf node carrying a coerced-on-read scalar value.
type Node struct {
	Kind     NodeKind
	Children map[string]*Node
	Order    []string // insertion order of Children keys
	IsArray  bool
	Value    *string // nil represents the JSON/YAML null leaf
}

func newInternal() *Node {
	return &Node{Kind: KindInternal, Children: map[string]*Node{}}
}

func newLeaf(v *string) *Node {
	return &Node{Kind: KindLeaf, Value: v}
}

// child returns (creating if absent) the named child of an internal node,
// recording insertion order the first time it is created.
func (n *Node) child(segment string) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	c, ok := n.Children[segment]
	if !ok {
		c = newInternal()
		n.Children[segment] = c
		n.Order = append(n.Order, segment)
	}
	return c
}

// Forest is one tree per top-level key segment.
type Forest struct {
	Roots map[string]*Node
	Order []string
}

// New returns an empty forest.
func New() *Forest {
	return &Forest{Roots: map[string]*Node{}}
}

// From builds a forest from a flat dotted-key map. Keys are visited in
// sorted order for determinism; array ordering is resolved by numeric
// segment value, not insertion order, so callers may supply keys in any
// order and still get a correctly ordered sequence on projection.
func From(flat map[string]string) *Forest {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := New()
	for _, k := range keys {
		v := flat[k]
		f.Set(k, &v)
	}
	return f
}

// root returns (creating if absent) the named root node.
func (f *Forest) root(segment string) *Node {
	r, ok := f.Roots[segment]
	if !ok {
		r = newInternal()
		f.Roots[segment] = r
		f.Order = append(f.Order, segment)
	}
	return r
}

// Set inserts value at key, creating intermediate internal nodes as needed.
// An internal node gets IsArray as soon as any child segment is an array
// index; readers that project arrays check separately that every child is
// an index.
func (f *Forest) Set(key string, value *string) {
	segments := Split(key)
	if len(segments) == 0 {
		return
	}

	cur := f.root(segments[0])
	if len(segments) == 1 {
		f.Roots[segments[0]] = leafOrKeep(cur, value)
		return
	}

	for i := 1; i < len(segments)-1; i++ {
		seg := segments[i]
		if IsArraySegment(seg) {
			cur.IsArray = true
		}
		cur = cur.child(seg)
	}

	last := segments[len(segments)-1]
	if IsArraySegment(last) {
		cur.IsArray = true
	}
	if cur.Children == nil {
		cur.Children = map[string]*Node{}
	}
	if _, exists := cur.Children[last]; !exists {
		cur.Order = append(cur.Order, last)
	}
	cur.Children[last] = newLeaf(value)
}

// leafOrKeep replaces a freshly-created empty internal root with a leaf
// when the key has exactly one segment (a top-level scalar key).
func leafOrKeep(existing *Node, value *string) *Node {
	if existing.Kind == KindLeaf {
		existing.Value = value
		return existing
	}
	if len(existing.Children) == 0 {
		return newLeaf(value)
	}
	return existing
}

// NodeFor traverses to the node at key, or (nil, false) if absent.
func (f *Forest) NodeFor(key string) (*Node, bool) {
	segments := Split(key)
	if len(segments) == 0 {
		return nil, false
	}
	cur, ok := f.Roots[segments[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		if cur.Kind != KindInternal {
			return nil, false
		}
		c, ok := cur.Children[seg]
		if !ok {
			return nil, false
		}
		cur = c
	}
	return cur, true
}

// ValueFor returns the coerced scalar at key, per the coercion rules of
// §4.A, and whether the key resolved to a leaf at all.
func ValueFor(f *Forest, key string) (any, bool) {
	n, ok := f.NodeFor(key)
	if !ok || n.Kind != KindLeaf {
		return nil, false
	}
	return Coerce(n.Value), true
}

// Coerce applies the untyped-accessor coercion rules: "true"/"false" to
// bool, numeric strings to float64, "null" (or a nil pointer) to nil,
// otherwise the original string.
func Coerce(v *string) any {
	if v == nil {
		return nil
	}
	s := *v
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

// ToObject projects the forest into a nested map/slice/scalar structure.
// Internal nodes whose IsArray flag is set and whose children are all
// non-negative integer segments emit an ordered []any; all other internal
// nodes emit a map[string]any.
func (f *Forest) ToObject() map[string]any {
	out := map[string]any{}
	for _, root := range f.Order {
		out[root] = nodeToObject(f.Roots[root])
	}
	return out
}

func nodeToObject(n *Node) any {
	if n.Kind == KindLeaf {
		return Coerce(n.Value)
	}

	if n.IsArray && allArraySegments(n) {
		maxIdx := -1
		for _, seg := range n.Order {
			idx, _ := ParseIndex(seg)
			if idx > maxIdx {
				maxIdx = idx
			}
		}
		arr := make([]any, maxIdx+1)
		for _, seg := range n.Order {
			idx, _ := ParseIndex(seg)
			arr[idx] = nodeToObject(n.Children[seg])
		}
		return arr
	}

	out := map[string]any{}
	for _, seg := range n.Order {
		out[seg] = nodeToObject(n.Children[seg])
	}
	return out
}

// ObjectAt projects the subtree rooted at key into a nested
// map/slice/scalar structure, the same shape ToObject produces for a
// whole forest. ok is false if key does not resolve to any node.
func (f *Forest) ObjectAt(key string) (any, bool) {
	n, ok := f.NodeFor(key)
	if !ok {
		return nil, false
	}
	return nodeToObject(n), true
}

// ArrayValues returns the ordered string values of an array node at key
// (each element rendered via fmt's default formatting), or ok=false if
// key does not resolve to an array-of-leaves node.
func (f *Forest) ArrayValues(key string) ([]string, bool) {
	n, ok := f.NodeFor(key)
	if !ok || n.Kind != KindInternal || !n.IsArray || !allArraySegments(n) {
		return nil, false
	}
	obj := nodeToObject(n)
	arr, ok := obj.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out, true
}

func allArraySegments(n *Node) bool {
	if len(n.Order) == 0 {
		return false
	}
	for _, seg := range n.Order {
		if !IsArraySegment(seg) {
			return false
		}
	}
	return true
}

// Flatten walks the forest back into a flat dotted-key map of string
// values, the inverse of From. Leaf values are rendered back to their
// original string form (coercion is read-time only and does not affect
// storage representation).
func (f *Forest) Flatten() map[string]string {
	out := map[string]string{}
	for _, root := range f.Order {
		flattenNode(f.Roots[root], root, out)
	}
	return out
}

func flattenNode(n *Node, prefix string, out map[string]string) {
	if n.Kind == KindLeaf {
		if n.Value != nil {
			out[prefix] = *n.Value
		} else {
			out[prefix] = "null"
		}
		return
	}
	for _, seg := range n.Order {
		flattenNode(n.Children[seg], fmt.Sprintf("%s%s%s", prefix, Separator, seg), out)
	}
}

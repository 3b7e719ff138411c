// Package cst defines the concrete syntax tree that the grammar engine
// produces: every node corresponds directly to a numbered production of the
// Fortran standard. Nodes are immutable once constructed, following the
// teacher's types.ParseTree / syntax.AST convention of Equal/Copy methods
// rather than exported mutable fields meant to be mutated after
// construction.
package cst

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gofortran/rule"
)

// Source is a back-pointer to the reader item that originated a node, used
// only for error reporting; it is never consulted for matching or
// rendering.
type Source struct {
	File     string
	Line     int
	ColStart int
	ColEnd   int
	Text     string

	// ConstructName is the `name:` prefix the reader stripped from this
	// statement, if any, carried through so a block matcher can check it
	// against the construct's END statement without the rule itself having
	// to thread a name position through its own item tuple.
	ConstructName string
}

// Item is one position in a node's item tuple: a child node, a leaf string,
// or the sentinel "absent". Exactly one of the three is meaningful for any
// given Item value.
type Item struct {
	child  *Node
	leaf   string
	absent bool
}

// NodeItem wraps a child node as an Item.
func NodeItem(n *Node) Item { return Item{child: n} }

// LeafItem wraps a leaf string as an Item. Keyword spellings must already be
// normalized to uppercase and identifier/string-literal spellings must
// already preserve their original casing by the time they reach here; Item
// does not normalize on its own.
func LeafItem(s string) Item { return Item{leaf: s} }

// AbsentItem returns the "absent" sentinel Item, used for optional positions
// that were not present in the source (e.g. a Kind_Selector with no kind
// param).
func AbsentItem() Item { return Item{absent: true} }

// IsAbsent reports whether the item is the absent sentinel.
func (it Item) IsAbsent() bool { return it.absent }

// Node returns the item's child node and true if it holds one.
func (it Item) Node() (*Node, bool) {
	if it.absent || it.child == nil {
		return nil, false
	}
	return it.child, true
}

// Leaf returns the item's leaf text and true if it holds one.
func (it Item) Leaf() (string, bool) {
	if it.absent || it.child != nil {
		return "", false
	}
	return it.leaf, true
}

func (it Item) render() string {
	switch {
	case it.absent:
		return ""
	case it.child != nil:
		return it.child.String()
	default:
		return it.leaf
	}
}

// Node is a single grammar-rule match. Its Tag names the production it
// instantiates; its Items carry children in the fixed positional order that
// Tag's rule.Descriptor promises. Kind and Sep record enough of the node's
// own structural shape to render it back to canonical Fortran without a
// second lookup into the rule registry, since a node, once built, must
// remain renderable even if the registry it was built from is discarded.
type Node struct {
	Tag   rule.Tag
	Kind  rule.Kind
	Items []Item

	// Sep is the join text for KindWordPayload ("::" vs a single space),
	// KindSeparator, KindKeywordValue (default " = "), and KindSequence
	// (default ", ") nodes. Ignored by other kinds; KindBinaryOp
	// renders with a single space on each side of the operator.
	Sep string

	// Delims is the bracket pair for KindBracketed nodes, e.g. {"(", ")"} or
	// {"(/", "/)"}.
	Delims [2]string

	// Src is a borrowed back-pointer to the source item that originated
	// this node, used only for syntax-error reporting.
	Src *Source

	// render, when non-nil, overrides the generic Kind-dispatch rendering
	// below. Used by KindCustom rules (e.g. Kind_Selector's three surface
	// forms) that do not fit any tabular shape.
	render func(*Node) string
}

// New constructs a node with the given tag, kind, and items.
func New(tag rule.Tag, kind rule.Kind, items ...Item) *Node {
	return &Node{Tag: tag, Kind: kind, Items: items}
}

// WithSep sets the node's join text and returns the node for chaining.
func (n *Node) WithSep(sep string) *Node {
	n.Sep = sep
	return n
}

// WithDelims sets the node's bracket delimiters and returns the node for
// chaining.
func (n *Node) WithDelims(left, right string) *Node {
	n.Delims = [2]string{left, right}
	return n
}

// WithSource attaches a back-pointer to the originating source item.
func (n *Node) WithSource(src *Source) *Node {
	n.Src = src
	return n
}

// WithRender overrides the Kind-based rendering of n, whatever its Kind.
// KindCustom nodes require it.
func (n *Node) WithRender(f func(*Node) string) *Node {
	n.render = f
	return n
}

// Leaf returns item i's leaf text, or "" if it is not a leaf.
func (n *Node) Leaf(i int) string {
	if i < 0 || i >= len(n.Items) {
		return ""
	}
	s, _ := n.Items[i].Leaf()
	return s
}

// Child returns item i's child node, or nil if it is not a node.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Items) {
		return nil
	}
	c, _ := n.Items[i].Node()
	return c
}

// Absent reports whether item i is the absent sentinel (including
// out-of-range positions).
func (n *Node) Absent(i int) bool {
	if i < 0 || i >= len(n.Items) {
		return true
	}
	return n.Items[i].IsAbsent()
}

// String renders the node to its canonical Fortran form: keywords uppercase,
// identifiers/string literals in original case, list/keyword-value/"::"
// separators per the rule's declared shape.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	if n.render != nil {
		return n.render(n)
	}

	switch n.Kind {
	case rule.KindNone:
		if len(n.Items) == 0 {
			return ""
		}
		return n.Items[0].render()

	case rule.KindTerminal:
		return n.Leaf(0)

	case rule.KindNumber:
		val := n.Leaf(0)
		if n.Absent(1) {
			return val
		}
		return val + "_" + n.Leaf(1)

	case rule.KindBracketed:
		left, right := n.Delims[0], n.Delims[1]
		var payload string
		if len(n.Items) > 0 {
			payload = n.Items[0].render()
		}
		return left + payload + right

	case rule.KindWordPayload:
		word := n.Leaf(0)
		if n.Absent(1) {
			return word
		}
		sep := n.Sep
		if sep == "" {
			sep = " "
		}
		return word + sep + n.Items[1].render()

	case rule.KindCall:
		head := n.Items[0].render()
		if n.Absent(1) {
			return head
		}
		args := ""
		if len(n.Items) > 1 {
			args = n.Items[1].render()
		}
		return head + "(" + args + ")"

	case rule.KindBinaryOp:
		lhs := n.Items[0].render()
		op := n.Leaf(1)
		rhs := n.Items[2].render()
		return lhs + " " + op + " " + rhs

	case rule.KindUnaryOp:
		op := n.Leaf(0)
		operand := n.Items[1].render()
		return op + operand

	case rule.KindSeparator:
		sep := n.Sep
		var a, b string
		if !n.Absent(0) {
			a = n.Items[0].render()
		}
		if !n.Absent(1) {
			b = n.Items[1].render()
		}
		if a == "" {
			return sep + b
		}
		if b == "" {
			return a + sep
		}
		return a + sep + b

	case rule.KindSequence:
		sep := n.Sep
		if sep == "" {
			sep = ", "
		}
		parts := make([]string, 0, len(n.Items))
		for _, it := range n.Items {
			parts = append(parts, it.render())
		}
		return strings.Join(parts, sep)

	case rule.KindKeywordValue:
		name := n.Leaf(0)
		sep := n.Sep
		if sep == "" {
			sep = " = "
		}
		return name + sep + n.Items[1].render()

	case rule.KindEndStatement:
		word := "END"
		if !n.Absent(0) {
			word += " " + n.Leaf(0)
		}
		if !n.Absent(1) {
			word += " " + n.Items[1].render()
		}
		return word

	case rule.KindBlock:
		parts := make([]string, 0, len(n.Items))
		for _, it := range n.Items {
			parts = append(parts, it.render())
		}
		return strings.Join(parts, "\n")

	case rule.KindCustom:
		// A KindCustom node without a render override is an engine bug:
		// every custom-shaped rule must supply one via WithRender.
		return fmt.Sprintf("<unrendered custom node %s>", n.Tag)
	}

	return fmt.Sprintf("<unknown kind %d for %s>", n.Kind, n.Tag)
}

// Copy returns a duplicate, deeply-copied node.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		Tag:    n.Tag,
		Kind:   n.Kind,
		Sep:    n.Sep,
		Delims: n.Delims,
		Src:    n.Src,
		render: n.render,
		Items:  make([]Item, len(n.Items)),
	}
	for i, it := range n.Items {
		if c, ok := it.Node(); ok {
			cp.Items[i] = NodeItem(c.Copy())
		} else {
			cp.Items[i] = it
		}
	}
	return cp
}

// Equal reports whether o is a node with the same tag and item structure:
// the same Tag and Kind, the same number of items, absent items in the same
// positions, equal leaf text, and recursively Equal children. Sep, Delims,
// Src and any render override are not compared.
func (n *Node) Equal(o any) bool {
	var other *Node
	switch v := o.(type) {
	case *Node:
		other = v
	case Node:
		other = &v
	default:
		return false
	}
	if n == nil || other == nil {
		return n == other
	}
	if n.Tag != other.Tag || n.Kind != other.Kind {
		return false
	}
	if len(n.Items) != len(other.Items) {
		return false
	}
	for i := range n.Items {
		a, b := n.Items[i], other.Items[i]
		if a.IsAbsent() != b.IsAbsent() {
			return false
		}
		if a.IsAbsent() {
			continue
		}
		ac, aIsNode := a.Node()
		bc, bIsNode := b.Node()
		if aIsNode != bIsNode {
			return false
		}
		if aIsNode {
			if !ac.Equal(bc) {
				return false
			}
			continue
		}
		al, _ := a.Leaf()
		bl, _ := b.Leaf()
		if al != bl {
			return false
		}
	}
	return true
}

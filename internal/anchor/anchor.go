// Package anchor encodes positions of text nodes into structure-relative
// addresses that survive a reload of the same source markup, and decodes
// them back into live tree positions.
//
// An address is only meaningful against a tree whose structure and text are
// unchanged since the address was produced. Content drift between encode and
// decode is not detected.
package anchor

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

var (
	// ErrElementNotFound is returned by Decode when the tree holds fewer
	// elements with the addressed tag than ParentIndex requires.
	ErrElementNotFound = errors.New("anchor: addressed element not found")

	// ErrNoParentElement is returned by Encode for a text node whose parent
	// is not an element.
	ErrNoParentElement = errors.New("anchor: text node has no enclosing element")
)

// Address locates a text node relative to document structure rather than to
// a live node. The enclosing element is identified by its tag name and its
// 0-based document-order rank among all elements sharing that tag;
// TextNodeOffset is the rune offset of the node's content within the
// element's concatenated text, and TextNodeLength is the node's rune length.
//
// Offsets are ancestor-relative rather than intra-leaf: capture splits text
// nodes, and intra-leaf offsets would not line up with a freshly parsed,
// unsplit tree.
type Address struct {
	ParentTagName  string `json:"parentTagName"`
	ParentIndex    int    `json:"parentIndex"`
	TextNodeOffset int    `json:"textNodeOffset"`
	TextNodeLength int    `json:"textNodeLength"`
}

// Pair is one stored selection: the addresses of its first and last text
// nodes, in document order.
type Pair [2]Address

// Encode produces the address of a text node. root must be the document root
// the ParentIndex rank is computed against.
func Encode(root, leaf *html.Node) (Address, error) {
	if leaf.Type != html.TextNode {
		return Address{}, doctree.ErrNotTextNode
	}
	parent := leaf.Parent
	if parent == nil || parent.Type != html.ElementNode {
		return Address{}, ErrNoParentElement
	}
	rank, err := doctree.ElementRank(root, parent)
	if err != nil {
		return Address{}, fmt.Errorf("rank of <%s>: %w", parent.Data, err)
	}
	offset, err := doctree.TextOffset(parent, leaf)
	if err != nil {
		return Address{}, fmt.Errorf("offset within <%s>: %w", parent.Data, err)
	}
	return Address{
		ParentTagName:  parent.Data,
		ParentIndex:    rank,
		TextNodeOffset: offset,
		TextNodeLength: doctree.TextLength(leaf),
	}, nil
}

// Decode resolves an address back into a live position on a freshly loaded
// tree. It locates the addressed element, then scans its text nodes in
// pre-order with a running total of lengths; the first node for which the
// updated total reaches TextNodeOffset is the match, and the returned offset
// is intra-node.
//
// If no text node satisfies the condition (the offset exceeds the element's
// total text length), Decode falls back to the element itself with the last
// computed offset and reports exact=false. Callers should treat that result
// as approximate.
func Decode(root *html.Node, addr Address) (pos doctree.Position, exact bool, err error) {
	parent := doctree.ElementByTag(root, addr.ParentTagName, addr.ParentIndex)
	if parent == nil {
		return doctree.Position{}, false, fmt.Errorf("%w: <%s> #%d",
			ErrElementNotFound, addr.ParentTagName, addr.ParentIndex)
	}
	seen := 0
	intra := addr.TextNodeOffset
	for w := doctree.NewWalker(parent); ; {
		n := w.Next()
		if n == nil {
			return doctree.Position{Node: parent, Offset: intra}, false, nil
		}
		if n.Type != html.TextNode {
			continue
		}
		intra = addr.TextNodeOffset - seen
		seen += doctree.TextLength(n)
		if seen >= addr.TextNodeOffset {
			return doctree.Position{Node: n, Offset: intra}, true, nil
		}
	}
}

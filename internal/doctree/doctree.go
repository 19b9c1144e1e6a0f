// Package doctree holds the document tree model and the tree operations the
// selection pipeline is built on. The tree itself is *html.Node from
// golang.org/x/net/html; this package adds construction helpers, text-node
// splitting, in-place replacement and structure queries over it.
//
// All character offsets and lengths in this package are rune offsets.
package doctree

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrNotTextNode is returned when a text-only operation is given an
	// element or other non-text node.
	ErrNotTextNode = errors.New("doctree: node is not a text node")

	// ErrDetachedNode is returned when an operation needs a parent and the
	// node has none.
	ErrDetachedNode = errors.New("doctree: node has no parent")
)

// Document couples a parsed tree with its display title.
type Document struct {
	Title string
	Root  *html.Node
}

// HTML renders the document tree back to markup.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}

// Position is a boundary position inside the tree: for a text node Offset is
// a rune offset into its content, for an element it is a child index.
type Position struct {
	Node   *html.Node
	Offset int
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// TextLength returns the rune length of a text node's content, 0 for any
// other node kind.
func TextLength(n *html.Node) int {
	if n.Type != html.TextNode {
		return 0
	}
	return utf8.RuneCountInString(n.Data)
}

// SplitText splits a text node at the given rune offset. The node keeps the
// content before the offset; the remainder is moved into a new text node
// inserted as the next sibling, which is returned. Offsets outside the
// content are clamped. The two nodes always concatenate back to the original.
func SplitText(leaf *html.Node, offset int) (*html.Node, error) {
	if leaf.Type != html.TextNode {
		return nil, ErrNotTextNode
	}
	if leaf.Parent == nil {
		return nil, ErrDetachedNode
	}
	runes := []rune(leaf.Data)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	rest := NewText(string(runes[offset:]))
	leaf.Data = string(runes[:offset])
	leaf.Parent.InsertBefore(rest, leaf.NextSibling)
	return rest, nil
}

// Replace swaps repl into old's position in its parent's child list and
// detaches old. repl must itself be detached.
func Replace(old, repl *html.Node) error {
	parent := old.Parent
	if parent == nil {
		return ErrDetachedNode
	}
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
	return nil
}

// CloneShallow returns a detached content-only copy of n: type, tag and
// attributes, no children.
func CloneShallow(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// ElementByTag returns the index-th element with the given tag in document
// pre-order under root, or nil if there are fewer than index+1 such elements.
func ElementByTag(root *html.Node, tag string, index int) *html.Node {
	if index < 0 {
		return nil
	}
	seen := 0
	for w := NewWalker(root); ; {
		n := w.Next()
		if n == nil {
			return nil
		}
		if n.Type == html.ElementNode && n.Data == tag {
			if seen == index {
				return n
			}
			seen++
		}
	}
}

// ElementRank returns the document-order rank of el among all elements under
// root that share its tag name.
func ElementRank(root, el *html.Node) (int, error) {
	rank := 0
	for w := NewWalker(root); ; {
		n := w.Next()
		if n == nil {
			return 0, fmt.Errorf("doctree: element <%s> not found under root", el.Data)
		}
		if n == el {
			return rank, nil
		}
		if n.Type == html.ElementNode && n.Data == el.Data {
			rank++
		}
	}
}

// Text returns the concatenated content of all text nodes under n in
// document order.
func Text(n *html.Node) string {
	var buf bytes.Buffer
	for w := NewWalker(n); ; {
		c := w.Next()
		if c == nil {
			return buf.String()
		}
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
}

package doctree

import "golang.org/x/net/html"

// Walker is an iterative pre-order traversal over a node tree. Every
// component that inspects the tree goes through it, so visitation order is
// uniform and tested once.
//
// When a node is popped its children are snapshotted onto the stack, in
// reverse order so the leftmost child is popped next, before the node is
// handed to the caller. Mutating the returned node afterwards (splitting it,
// replacing it) therefore cannot disturb the traversal: new siblings created
// by a split are never visited, and the pre-mutation children already are.
type Walker struct {
	stack []*html.Node
}

// NewWalker starts a traversal rooted at root. The root itself is the first
// node returned.
func NewWalker(root *html.Node) *Walker {
	return &Walker{stack: []*html.Node{root}}
}

// Next returns the next node in pre-order, or nil when the traversal is
// exhausted.
func (w *Walker) Next() *html.Node {
	if len(w.stack) == 0 {
		return nil
	}
	n := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		w.stack = append(w.stack, c)
	}
	return n
}

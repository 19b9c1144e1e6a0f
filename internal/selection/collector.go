package selection

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// Collect splits the boundary text nodes of the range so the selected
// substring is isolated into standalone nodes, and returns the text nodes
// spanning the selection in document order. Concatenating the returned
// nodes' content yields exactly the selected plain text.
//
// Collect mutates the tree: boundary text nodes are split in place. Nodes
// are only ever split after the traversal has already snapshotted their
// siblings, so the walk stays consistent.
func Collect(root *html.Node, start, end doctree.Position) ([]*html.Node, error) {
	// Both boundaries inside one text node: carve out the middle.
	if start.Node == end.Node && start.Node.Type == html.TextNode {
		mid, err := doctree.SplitText(start.Node, start.Offset)
		if err != nil {
			return nil, fmt.Errorf("split at selection start: %w", err)
		}
		if _, err := doctree.SplitText(mid, end.Offset-start.Offset); err != nil {
			return nil, fmt.Errorf("split at selection end: %w", err)
		}
		return []*html.Node{mid}, nil
	}

	var leaves []*html.Node
	within := false
	for w := doctree.NewWalker(root); ; {
		n := w.Next()
		if n == nil {
			return leaves, nil
		}
		switch {
		case n == start.Node:
			// A non-text start container contributes no node of its own, it
			// only marks the range as begun.
			if n.Type == html.TextNode {
				suffix, err := doctree.SplitText(n, start.Offset)
				if err != nil {
					return nil, fmt.Errorf("split at selection start: %w", err)
				}
				leaves = append(leaves, suffix)
			}
			within = true
		case n == end.Node:
			if n.Type == html.TextNode {
				if _, err := doctree.SplitText(n, end.Offset); err != nil {
					return nil, fmt.Errorf("split at selection end: %w", err)
				}
				leaves = append(leaves, n)
			}
			// Document order guarantees nothing past the end boundary
			// belongs to the range.
			return leaves, nil
		case within && n.Type == html.TextNode:
			leaves = append(leaves, n)
		}
	}
}

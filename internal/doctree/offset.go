package doctree

import (
	"errors"

	"golang.org/x/net/html"
)

// ErrLeafNotFound is returned when the target leaf is not a descendant of
// the ancestor. Callers are expected to have established containment first;
// hitting this is an invariant violation, not a recoverable condition.
var ErrLeafNotFound = errors.New("doctree: leaf not found under ancestor")

// TextOffset returns the rune offset, within the concatenated text content
// of ancestor, at which leaf's content begins. It walks ancestor in
// pre-order, summing the lengths of text nodes visited before leaf, and
// stops the moment leaf itself is visited.
func TextOffset(ancestor, leaf *html.Node) (int, error) {
	total := 0
	for w := NewWalker(ancestor); ; {
		n := w.Next()
		if n == nil {
			return 0, ErrLeafNotFound
		}
		if n == leaf {
			return total, nil
		}
		if n.Type == html.TextNode {
			total += TextLength(n)
		}
	}
}

package selection

import (
	"errors"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// WrapperTag is the element highlighted text nodes are wrapped in.
const WrapperTag = "span"

// ErrHasChildren is returned when Highlight is asked to wrap a node with
// children. The wrap copies content only, so accepting such a node would
// silently drop its subtree.
var ErrHasChildren = errors.New("selection: cannot highlight a node with children")

// Highlight wraps a childless node in a styled container, replacing the node
// at its position in the parent's child list, and returns the wrapper. The
// class name comes from the caller; this package does not define styles.
func Highlight(leaf *html.Node, class string) (*html.Node, error) {
	if leaf.FirstChild != nil {
		return nil, ErrHasChildren
	}
	if leaf.Parent == nil {
		return nil, doctree.ErrDetachedNode
	}
	wrapper := doctree.NewElement(WrapperTag, html.Attribute{Key: "class", Val: class})
	inner := doctree.CloneShallow(leaf)
	if err := doctree.Replace(leaf, wrapper); err != nil {
		return nil, err
	}
	wrapper.AppendChild(inner)
	return wrapper, nil
}

// Package selection turns a pair of boundary positions into the isolated
// text nodes spanning them, and wraps those nodes in highlight containers.
package selection

import "github.com/hilite-dev/hilite/internal/doctree"

// Range is a selection delimited by two boundary positions, start before or
// equal to end in document order.
type Range struct {
	Start doctree.Position
	End   doctree.Position
}

// Collapsed reports whether the range is zero-length: both boundaries on the
// same node at the same offset.
func (r Range) Collapsed() bool {
	return r.Start.Node == r.End.Node && r.Start.Offset == r.End.Offset
}

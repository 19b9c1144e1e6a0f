// Package controller wires the selection pipeline together: capture on
// interaction, restore on load. Both paths run synchronously to completion;
// there is no partial progress to resume.
package controller

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/anchor"
	"github.com/hilite-dev/hilite/internal/selection"
	"github.com/hilite-dev/hilite/internal/store"
)

// Controller captures and restores one selection per slot.
type Controller struct {
	store store.Store
	class string
	log   *slog.Logger
}

func New(st store.Store, highlightClass string, log *slog.Logger) *Controller {
	return &Controller{store: st, class: highlightClass, log: log}
}

// Capture isolates the selected text into standalone nodes, persists the
// addresses of the first and last node to the slot, and highlights every
// collected node. A collapsed selection, or one spanning no text, is a
// silent no-op and leaves the slot untouched; the returned pair is nil.
func (c *Controller) Capture(ctx context.Context, key string, root *html.Node, sel selection.Range) (*anchor.Pair, error) {
	if sel.Collapsed() {
		return nil, nil
	}
	leaves, err := selection.Collect(root, sel.Start, sel.End)
	if err != nil {
		return nil, fmt.Errorf("collect selection: %w", err)
	}
	if len(leaves) == 0 {
		return nil, nil
	}

	startAddr, err := anchor.Encode(root, leaves[0])
	if err != nil {
		return nil, fmt.Errorf("encode selection start: %w", err)
	}
	endAddr, err := anchor.Encode(root, leaves[len(leaves)-1])
	if err != nil {
		return nil, fmt.Errorf("encode selection end: %w", err)
	}
	pair := anchor.Pair{startAddr, endAddr}

	if err := c.store.Save(ctx, key, pair); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}
	for _, leaf := range leaves {
		if _, err := selection.Highlight(leaf, c.class); err != nil {
			return nil, fmt.Errorf("highlight leaf: %w", err)
		}
	}
	c.log.Info("selection captured",
		"key", key,
		"leaves", len(leaves),
		"start", startAddr,
		"end", endAddr,
	)
	return &pair, nil
}

// Restore reads the slot and re-applies the stored selection to a freshly
// loaded tree. An absent slot is a silent no-op. A stored address whose
// element no longer resolves aborts the restoration, contained: the document
// is left unhighlighted and no error reaches the caller. Approximate decode
// results are logged and used as-is.
//
// Restore does not mark restored nodes, so running it twice against the same
// live tree wraps them twice.
func (c *Controller) Restore(ctx context.Context, key string, root *html.Node) (bool, error) {
	pair, ok, err := c.store.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load selection: %w", err)
	}
	if !ok {
		return false, nil
	}

	start, exact, err := anchor.Decode(root, pair[0])
	if err != nil {
		c.log.Warn("selection restore aborted", "key", key, "boundary", "start", "error", err)
		return false, nil
	}
	if !exact {
		c.log.Warn("approximate start anchor", "key", key, "address", pair[0])
	}
	end, exact, err := anchor.Decode(root, pair[1])
	if err != nil {
		c.log.Warn("selection restore aborted", "key", key, "boundary", "end", "error", err)
		return false, nil
	}
	if !exact {
		c.log.Warn("approximate end anchor", "key", key, "address", pair[1])
	}
	// The stored offset marks where the end node's content begins; the
	// selection extends through that whole node.
	end.Offset += pair[1].TextNodeLength

	leaves, err := selection.Collect(root, start, end)
	if err != nil {
		return false, fmt.Errorf("collect stored selection: %w", err)
	}
	for _, leaf := range leaves {
		if _, err := selection.Highlight(leaf, c.class); err != nil {
			return false, fmt.Errorf("highlight leaf: %w", err)
		}
	}
	c.log.Info("selection restored", "key", key, "leaves", len(leaves))
	return true, nil
}

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/anchor"
	"github.com/hilite-dev/hilite/internal/doctree"
	"github.com/hilite-dev/hilite/internal/selection"
)

// boundary is a selection endpoint as clients express it: an element
// identified by tag name and document-order rank among same-tag elements,
// plus a rune offset into that element's concatenated text content.
type boundary struct {
	Tag    string `json:"tag"`
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
}

type captureRequest struct {
	Start boundary `json:"start"`
	End   boundary `json:"end"`
}

func (s *Server) handleCaptureSelection(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	doc := s.docs.Get(docID)
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Start.Tag == "" || req.End.Tag == "" {
		jsonError(w, "start and end boundaries are required", http.StatusBadRequest)
		return
	}

	tree, err := s.parseDocument(doc)
	if err != nil {
		jsonError(w, "parse document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	start, ok := s.resolveBoundary(tree.Root, req.Start)
	if !ok {
		jsonError(w, "start boundary does not resolve", http.StatusUnprocessableEntity)
		return
	}
	end, ok := s.resolveBoundary(tree.Root, req.End)
	if !ok {
		jsonError(w, "end boundary does not resolve", http.StatusUnprocessableEntity)
		return
	}

	pair, err := s.ctrl.Capture(r.Context(), docID, tree.Root, selection.Range{Start: start, End: end})
	if err != nil {
		jsonError(w, "capture selection: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if pair == nil {
		// Collapsed or empty selection: nothing stored, nothing highlighted.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"captured": false})
		return
	}

	markup, err := tree.HTML()
	if err != nil {
		jsonError(w, "render document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"captured": true,
		"start":    pair[0],
		"end":      pair[1],
		"html":     markup,
	})
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if s.docs.Get(docID) == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	pair, ok, err := s.selections.Load(r.Context(), docID)
	if err != nil {
		jsonError(w, "load selection: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "no selection stored", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pair)
}

// resolveBoundary maps a client boundary onto a live (node, offset) position
// using the same structure-relative resolution the codec uses for stored
// addresses. Approximate resolutions are rejected.
func (s *Server) resolveBoundary(root *html.Node, b boundary) (doctree.Position, bool) {
	pos, exact, err := anchor.Decode(root, anchor.Address{
		ParentTagName:  strings.ToLower(b.Tag),
		ParentIndex:    b.Index,
		TextNodeOffset: b.Offset,
	})
	if err != nil || !exact {
		return doctree.Position{}, false
	}
	return pos, true
}

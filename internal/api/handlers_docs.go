package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hilite-dev/hilite/internal/docstore"
	"github.com/hilite-dev/hilite/internal/doctree"
	"github.com/hilite-dev/hilite/internal/parser"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc := &docstore.Document{
		ID:       docstore.ContentHashHex(data)[:16],
		Filename: filename,
		AddedAt:  time.Now(),
		Source:   data,
	}

	// Parse once up front so broken uploads are rejected here, not on read.
	tree, err := s.parseDocument(doc)
	if err != nil {
		jsonError(w, "unparseable document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	doc.Title = tree.Title
	if title := r.FormValue("title"); title != "" {
		doc.Title = title
	}

	s.docs.Put(doc)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":   doc.ID,
		"filename": doc.Filename,
		"title":    doc.Title,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": s.docs.List()})
}

// handleGetDocument serves a fresh parse of the document with the stored
// selection, if any, re-applied. Restoration failures leave the document
// unhighlighted rather than failing the request.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	doc := s.docs.Get(docID)
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	tree, err := s.parseDocument(doc)
	if err != nil {
		jsonError(w, "parse document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	restored, err := s.ctrl.Restore(r.Context(), docID, tree.Root)
	if err != nil {
		// Serve a pristine tree: a failed restore may have left partial
		// splits or highlights behind.
		s.log.Error("restore failed", "doc_id", docID, "error", err)
		restored = false
		if tree, err = s.parseDocument(doc); err != nil {
			jsonError(w, "parse document: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	markup, err := tree.HTML()
	if err != nil {
		jsonError(w, "render document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":   doc.ID,
		"title":    doc.Title,
		"restored": restored,
		"html":     markup,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.docs.Delete(docID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err := s.selections.Delete(r.Context(), docID); err != nil {
		s.log.Warn("delete selection slot", "doc_id", docID, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}

// parseDocument re-parses a document's original source bytes.
func (s *Server) parseDocument(doc *docstore.Document) (*doctree.Document, error) {
	p, err := parser.ForFile(doc.Filename)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}
	return p.Parse(bytes.NewReader(doc.Source), doc.Filename)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

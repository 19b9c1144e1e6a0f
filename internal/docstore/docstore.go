// Package docstore is an in-memory registry of uploaded documents. It keeps
// the original source bytes, never a parsed tree: every read re-parses the
// source, so selection restoration always runs against a freshly loaded,
// unsplit tree.
package docstore

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

// Document is one registered source document.
type Document struct {
	ID       string    `json:"doc_id"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	AddedAt  time.Time `json:"added_at"`

	// Source is the original markup, byte for byte as uploaded.
	Source []byte `json:"-"`
}

// Registry is a thread-safe document registry.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]*Document)}
}

// Put registers a document, replacing any prior document with the same ID.
func (r *Registry) Put(doc *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
}

// Get returns the document with the given ID, or nil.
func (r *Registry) Get(id string) *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.docs[id]
}

// Delete removes a document. It reports whether the document existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.docs[id]
	delete(r.docs, id)
	return ok
}

// List returns all documents ordered by upload time, oldest first.
func (r *Registry) List() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out
}

// ContentHashHex returns the hex SHA-256 of data. Document IDs are derived
// from it, so re-uploading identical content yields the same ID.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

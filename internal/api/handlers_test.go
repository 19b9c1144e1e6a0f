package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hilite-dev/hilite/internal/anchor"
	"github.com/hilite-dev/hilite/internal/config"
	"github.com/hilite-dev/hilite/internal/controller"
	"github.com/hilite-dev/hilite/internal/docstore"
	"github.com/hilite-dev/hilite/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Port:           "0",
		HighlightClass: "hilite",
		MaxUploadBytes: 1 << 20,
	}
	ctrl := controller.New(fs, cfg.HighlightClass, log)
	return NewServer(docstore.NewRegistry(), ctrl, fs, log, cfg)
}

func uploadDocument(t *testing.T, srv *Server, filename, content string) string {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DocID string `json:"doc_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if resp.DocID == "" {
		t.Fatal("upload returned empty doc_id")
	}
	return resp.DocID
}

func captureSelection(t *testing.T, srv *Server, docID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/documents/"+docID+"/selection", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "image.png")
	fw.Write([]byte("not really"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCaptureAndReload(t *testing.T) {
	srv := newTestServer(t)
	docID := uploadDocument(t, srv, "two.html", "<p>Hello</p><p>World</p>")

	// Select "llo": offsets 2-5 inside the first paragraph.
	rec := captureSelection(t, srv, docID,
		`{"start":{"tag":"p","index":0,"offset":2},"end":{"tag":"p","index":0,"offset":5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture status = %d, body %s", rec.Code, rec.Body.String())
	}

	var capResp struct {
		Captured bool           `json:"captured"`
		Start    anchor.Address `json:"start"`
		End      anchor.Address `json:"end"`
		HTML     string         `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &capResp); err != nil {
		t.Fatalf("decode capture response: %v", err)
	}
	if !capResp.Captured {
		t.Fatal("expected captured=true")
	}
	want := anchor.Address{ParentTagName: "p", ParentIndex: 0, TextNodeOffset: 2, TextNodeLength: 3}
	if capResp.Start != want || capResp.End != want {
		t.Errorf("addresses = %+v / %+v, want both %+v", capResp.Start, capResp.End, want)
	}
	if !strings.Contains(capResp.HTML, `<span class="hilite">llo</span>`) {
		t.Errorf("capture response html missing highlight: %s", capResp.HTML)
	}

	// Reload: the stored selection is re-applied to a fresh parse.
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID, nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var getResp struct {
		Restored bool   `json:"restored"`
		HTML     string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if !getResp.Restored {
		t.Error("expected restored=true")
	}
	if !strings.Contains(getResp.HTML, `<span class="hilite">llo</span>`) {
		t.Errorf("reload html missing highlight: %s", getResp.HTML)
	}
}

func TestCapture_CollapsedIsNoop(t *testing.T) {
	srv := newTestServer(t)
	docID := uploadDocument(t, srv, "two.html", "<p>Hello</p><p>World</p>")

	rec := captureSelection(t, srv, docID,
		`{"start":{"tag":"p","index":0,"offset":3},"end":{"tag":"p","index":0,"offset":3}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture status = %d", rec.Code)
	}
	var capResp struct {
		Captured bool `json:"captured"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &capResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if capResp.Captured {
		t.Error("collapsed selection must not capture")
	}

	// No slot was written.
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/selection", nil)
	sel := httptest.NewRecorder()
	srv.ServeHTTP(sel, req)
	if sel.Code != http.StatusNotFound {
		t.Errorf("selection status = %d, want 404", sel.Code)
	}

	// And the document reloads unhighlighted.
	req = httptest.NewRequest(http.MethodGet, "/api/documents/"+docID, nil)
	get := httptest.NewRecorder()
	srv.ServeHTTP(get, req)
	if strings.Contains(get.Body.String(), "hilite") {
		t.Error("collapsed selection produced a highlight")
	}
}

func TestCapture_CrossParagraph(t *testing.T) {
	srv := newTestServer(t)
	docID := uploadDocument(t, srv, "two.html", "<p>Hello</p><p>World</p>")

	rec := captureSelection(t, srv, docID,
		`{"start":{"tag":"p","index":0,"offset":3},"end":{"tag":"p","index":1,"offset":3}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Stored pair matches the two boundary leaves.
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/selection", nil)
	sel := httptest.NewRecorder()
	srv.ServeHTTP(sel, req)
	if sel.Code != http.StatusOK {
		t.Fatalf("selection status = %d", sel.Code)
	}
	var pair anchor.Pair
	if err := json.Unmarshal(sel.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	wantStart := anchor.Address{ParentTagName: "p", ParentIndex: 0, TextNodeOffset: 3, TextNodeLength: 2}
	wantEnd := anchor.Address{ParentTagName: "p", ParentIndex: 1, TextNodeOffset: 0, TextNodeLength: 3}
	if pair[0] != wantStart || pair[1] != wantEnd {
		t.Errorf("pair = %+v, want %+v / %+v", pair, wantStart, wantEnd)
	}

	// Reload re-highlights both fragments.
	req = httptest.NewRequest(http.MethodGet, "/api/documents/"+docID, nil)
	get := httptest.NewRecorder()
	srv.ServeHTTP(get, req)
	body := get.Body.String()
	if !strings.Contains(body, `<span class="hilite">lo</span>`) ||
		!strings.Contains(body, `<span class="hilite">Wor</span>`) {
		t.Errorf("reload missing highlights: %s", body)
	}
}

func TestCapture_UnresolvableBoundary(t *testing.T) {
	srv := newTestServer(t)
	docID := uploadDocument(t, srv, "two.html", "<p>Hello</p><p>World</p>")

	rec := captureSelection(t, srv, docID,
		`{"start":{"tag":"table","index":0,"offset":0},"end":{"tag":"p","index":0,"offset":3}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestDeleteDocument_RemovesSelection(t *testing.T) {
	srv := newTestServer(t)
	docID := uploadDocument(t, srv, "two.html", "<p>Hello</p><p>World</p>")

	rec := captureSelection(t, srv, docID,
		`{"start":{"tag":"p","index":0,"offset":0},"end":{"tag":"p","index":0,"offset":5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("capture status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/"+docID, nil)
	del := httptest.NewRecorder()
	srv.ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d", del.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents/"+docID, nil)
	get := httptest.NewRecorder()
	srv.ServeHTTP(get, req)
	if get.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", get.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.APIKey = "sekrit"
	srv.setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}

	// Health stays public.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// PDFParser handles PDF files. It tries the Go library first, then falls
// back to pdftotext if available. Each page becomes a <section> of <p>
// paragraphs.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "hilite-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var markup strings.Builder
	for _, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		markup.WriteString("<section>\n")
		for _, para := range strings.Split(page, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			markup.WriteString("<p>")
			markup.WriteString(html.EscapeString(para))
			markup.WriteString("</p>\n")
		}
		markup.WriteString("</section>\n")
	}

	root, err := html.Parse(strings.NewReader(markup.String()))
	if err != nil {
		return nil, fmt.Errorf("parse pdf markup: %w", err)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Root:  root,
	}, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

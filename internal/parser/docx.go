package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// DOCXParser handles .docx files. Heading-styled paragraphs become h1..h6
// elements, everything else becomes <p>.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "hilite-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var markup strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		tag := "p"
		if level := docxHeadingLevel(para); level > 0 {
			tag = fmt.Sprintf("h%d", level)
		}
		markup.WriteString("<" + tag + ">")
		markup.WriteString(html.EscapeString(text))
		markup.WriteString("</" + tag + ">\n")
	}

	root, err := html.Parse(strings.NewReader(markup.String()))
	if err != nil {
		return nil, fmt.Errorf("parse docx markup: %w", err)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Root:  root,
	}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

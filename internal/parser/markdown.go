package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark. The markdown is
// rendered to HTML and parsed like any other HTML document; goldmark's
// output is deterministic, so identical source bytes always produce an
// identical tree.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	var rendered bytes.Buffer
	md := goldmark.New()
	if err := md.Convert(src, &rendered); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	root, err := html.Parse(&rendered)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Root:  root,
	}, nil
}

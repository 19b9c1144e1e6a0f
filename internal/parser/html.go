package parser

import (
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// HTMLParser handles HTML files. The markup is taken as-is: the tree served
// to clients is the tree selections are anchored against, so nothing is
// stripped or reordered.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{
		Title: titleFromFilename(filename),
		Root:  root,
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}
	return doc, nil
}

func findTitle(n *html.Node) string {
	for w := doctree.NewWalker(n); ; {
		c := w.Next()
		if c == nil {
			return ""
		}
		if c.Type == html.ElementNode && c.Data == "title" {
			return doctree.Text(c)
		}
	}
}

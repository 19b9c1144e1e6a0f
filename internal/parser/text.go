package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// TextParser handles plain text files. Blank-line-separated paragraphs
// become <p> elements.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	var markup strings.Builder
	for _, para := range paragraphs {
		markup.WriteString("<p>")
		markup.WriteString(html.EscapeString(para))
		markup.WriteString("</p>\n")
	}

	root, err := html.Parse(strings.NewReader(markup.String()))
	if err != nil {
		return nil, fmt.Errorf("parse text markup: %w", err)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Root:  root,
	}, nil
}

package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/hilite-dev/hilite/internal/doctree"
)

// CSVParser handles CSV files. The first row becomes a header row; the whole
// file becomes a single <table>.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var markup strings.Builder
	markup.WriteString("<table>")
	for i, row := range records {
		cell := "td"
		if i == 0 {
			cell = "th"
		}
		markup.WriteString("<tr>")
		for _, field := range row {
			markup.WriteString("<" + cell + ">")
			markup.WriteString(html.EscapeString(field))
			markup.WriteString("</" + cell + ">")
		}
		markup.WriteString("</tr>")
	}
	markup.WriteString("</table>")

	root, err := html.Parse(strings.NewReader(markup.String()))
	if err != nil {
		return nil, fmt.Errorf("parse csv markup: %w", err)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Root:  root,
	}, nil
}

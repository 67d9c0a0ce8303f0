package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/google/uuid"
)

const (
	docxFont     = "Calibri"
	docxBodySize = 11
)

// DocxRenderer serializes documents with godocx. The library only writes
// to a path, so rendering stages through a temp file.
type DocxRenderer struct{}

var _ Renderer = DocxRenderer{}

// NewDocxRenderer returns the default DOCX serializer.
func NewDocxRenderer() DocxRenderer {
	return DocxRenderer{}
}

// Ext returns "docx".
func (DocxRenderer) Ext() string { return "docx" }

// Render produces the DOCX bytes for a document.
func (DocxRenderer) Render(doc Document) ([]byte, error) {
	d, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}

	d.AddParagraph("").AddText(doc.Title).Font(docxFont).Size(16).Bold(true)

	for _, sec := range doc.Sections {
		d.AddParagraph("").AddText(sec.Heading).Font(docxFont).Size(13).Bold(true)
		for _, line := range sec.Lines {
			d.AddParagraph("").AddText(line).Font(docxFont).Size(docxBodySize)
		}
		d.AddParagraph("")
	}

	path := filepath.Join(os.TempDir(), "clinscribe-"+uuid.NewString()+".docx")
	defer os.Remove(path)

	if err := d.SaveTo(path); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	return data, nil
}

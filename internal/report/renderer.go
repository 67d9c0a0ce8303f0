package report

import "fmt"

// RendererFor returns the renderer for an output format name.
// An empty format defaults to PDF.
func RendererFor(format string) (Renderer, error) {
	switch format {
	case "", "pdf":
		return NewPDFRenderer(), nil
	case "docx":
		return NewDocxRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

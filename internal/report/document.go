// Package report assembles session reports and serializes them to PDF or
// DOCX.
package report

import (
	"fmt"
	"strings"

	"github.com/avelis/clinscribe/internal/models"
)

// Section headings, fixed across all formats.
const (
	HeadingTranscript = "Transcript"
	HeadingSummary    = "Summary & Possible Diagnoses"
	HeadingKnowledge  = "Related Knowledge"
)

// Document is the format-independent report layout. Building it is pure:
// the same inputs always produce an identical Document, and serializers
// only style it, never reorder or rewrite text.
type Document struct {
	Title    string
	Sections []Section
}

// Section is one heading with its body lines. Lines map one-to-one to
// newline-separated source text; serializers must render each line as its
// own paragraph/line break, never collapse them.
type Section struct {
	Heading string
	Lines   []string
}

// Renderer serializes a Document into a binary artifact.
type Renderer interface {
	Render(doc Document) ([]byte, error)

	// Ext returns the file extension for the format, without the dot.
	Ext() string
}

// Build assembles the fixed report layout: title (with the session ID),
// transcript, summary, and, only when knowledge is non-empty, a related
// knowledge section of question/answer pairs.
func Build(meta models.Metadata, transcript, summary string, sessionID int64, knowledge []models.QA) Document {
	doc := Document{
		Title: fmt.Sprintf("Session %d - %s", sessionID, meta.Info()),
		Sections: []Section{
			{Heading: HeadingTranscript, Lines: splitLines(transcript)},
			{Heading: HeadingSummary, Lines: splitLines(summary)},
		},
	}

	if len(knowledge) > 0 {
		sec := Section{Heading: HeadingKnowledge}
		for _, qa := range knowledge {
			sec.Lines = append(sec.Lines, "Q: "+qa.Question, "A: "+qa.Answer)
		}
		doc.Sections = append(doc.Sections, sec)
	}

	return doc
}

// BuildFromRecord assembles the report for a persisted session.
func BuildFromRecord(rec models.SessionRecord, knowledge []models.QA) Document {
	return Build(rec.Metadata(), rec.Transcript, rec.Summary, rec.ID, knowledge)
}

// splitLines turns free text into body lines, preserving interior empty
// lines. Empty text yields a single empty line so the section still
// renders a body placeholder.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

package llm

import (
	"context"
	"fmt"

	"github.com/avelis/clinscribe/internal/models"
)

const summarySystemPrompt = `You are a medical assistant. Summarize the conversation in a medical report style, highlighting key medical information, symptoms, and treatment discussions, and list possible diagnoses, one per line.`

// Summarizer turns a session transcript plus metadata into a summary with
// possible diagnoses. The upstream response is returned verbatim; no
// client-side reformatting.
type Summarizer struct {
	model *Model
}

// NewSummarizer creates a summarizer over the given model.
func NewSummarizer(model *Model) *Summarizer {
	return &Summarizer{model: model}
}

// Summarize sends the metadata and transcript to the LLM and returns its
// response unmodified. Any upstream error propagates: a failed summary is
// always an error, never an empty default.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, meta models.Metadata) (string, error) {
	summary, err := s.model.GenerateWithSystem(ctx, summarySystemPrompt, BuildPrompt(transcript, meta))
	if err != nil {
		return "", fmt.Errorf("summarize session: %w", err)
	}
	return summary, nil
}

// BuildPrompt exposes the exact user prompt for a transcript and metadata.
// Used by tests to assert both inputs reach the request.
func BuildPrompt(transcript string, meta models.Metadata) string {
	return fmt.Sprintf(`Patient Info: %s
Transcript: %s
Please summarize the above dialogue in a medical report style and list possible diagnoses.`, meta.Info(), transcript)
}

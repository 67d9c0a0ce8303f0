package tools

import (
	"context"
	"encoding/json"

	"github.com/avelis/clinscribe/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewSessionInput defines the input schema for the new_session tool.
type NewSessionInput struct {
	Doctor    string `json:"doctor,omitempty" jsonschema:"Treating doctor's name"`
	Patient   string `json:"patient,omitempty" jsonschema:"Patient's name"`
	Date      string `json:"date,omitempty" jsonschema:"Session date, e.g. 2026-08-29"`
	AudioPath string `json:"audio_path,omitempty" jsonschema:"Path to a recorded audio file to transcribe"`
	Text      string `json:"text,omitempty" jsonschema:"Manual transcript; skips audio transcription when set"`
}

// NewSessionResult is the response from the new_session tool.
type NewSessionResult struct {
	ID         int64    `json:"id"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	RenderNote string   `json:"render_note,omitempty"`
}

// NewNewSessionHandler creates the new_session tool handler. It runs
// the full pipeline and reports the stored session.
func NewNewSessionHandler(deps *Dependencies) mcp.ToolHandlerFor[NewSessionInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input NewSessionInput) (*mcp.CallToolResult, any, error) {
		if input.AudioPath == "" && input.Text == "" {
			return ErrorResult("Nothing to process", "Provide audio_path or text"), nil, nil
		}

		res, err := deps.Pipeline.Process(ctx, pipeline.Request{
			Doctor:    input.Doctor,
			Patient:   input.Patient,
			Date:      input.Date,
			AudioPath: input.AudioPath,
			Text:      input.Text,
		})
		if err != nil {
			return ErrorResult("Session processing failed: "+err.Error(),
				"Check gateway credentials and retry"), nil, nil
		}

		out := NewSessionResult{
			ID:      res.Record.ID,
			Summary: res.Record.Summary,
			Tags:    res.Record.Tags,
		}
		// The record is durable even when rendering failed; surface
		// the render problem without failing the tool call.
		if res.RenderErr != nil {
			out.RenderNote = res.RenderErr.Error()
		}

		body, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return ErrorResult("Failed to encode result: "+err.Error(), ""), nil, nil
		}
		return TextResult(string(body)), nil, nil
	}
}

package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

const transcribePrompt = "Transcribe this audio recording verbatim. " +
	"Return only the spoken text, with no timestamps, labels, or commentary."

// GeminiGateway transcribes audio with the Gemini API by sending the raw
// bytes inline alongside a transcription instruction.
type GeminiGateway struct {
	apiKey string
	model  string
}

var _ Gateway = (*GeminiGateway)(nil)

// NewGeminiGateway creates a Gemini transcription gateway. If model is
// empty, "gemini-2.0-flash" is used.
func NewGeminiGateway(apiKey, model string) *GeminiGateway {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiGateway{apiKey: apiKey, model: model}
}

// Transcribe reads the audio file and asks Gemini for a verbatim transcript.
func (g *GeminiGateway) Transcribe(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcribePrompt),
		genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// audioMIMEType maps common audio extensions to MIME types. Unknown
// extensions fall back to audio/wav, which Gemini sniffs past anyway.
func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".webm":
		return "audio/webm"
	default:
		return "audio/wav"
	}
}

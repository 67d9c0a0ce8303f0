package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAIGateway transcribes audio via the OpenAI audio.transcriptions API.
type OpenAIGateway struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

var _ Gateway = (*OpenAIGateway)(nil)

// NewOpenAIGateway creates a Whisper transcription gateway. If model is
// empty, "whisper-1" is used. Request deadlines come from the caller's
// context, not the HTTP client.
func NewOpenAIGateway(apiKey, model string) *OpenAIGateway {
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAIGateway{
		apiKey: apiKey,
		model:  model,
		url:    openAITranscriptionURL,
		client: &http.Client{},
	}
}

type openAITranscription struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file as multipart form data and returns the
// transcript text.
func (g *OpenAIGateway) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", g.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription http %d: %s", resp.StatusCode, string(b))
	}

	var tr openAITranscription
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return tr.Text, nil
}

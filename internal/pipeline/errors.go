package pipeline

import "errors"

// Stage errors wrapped into failures from Process so callers can tell
// which stage broke with errors.Is.
var (
	// ErrTranscription indicates the transcription gateway failed.
	ErrTranscription = errors.New("transcription failed")

	// ErrSummarization indicates the LLM summarization failed. Nothing
	// is persisted when this is returned.
	ErrSummarization = errors.New("summarization failed")

	// ErrRender indicates report rendering failed after the record was
	// durably stored. Returned via Result.RenderErr, never as the
	// Process error.
	ErrRender = errors.New("report rendering failed")
)

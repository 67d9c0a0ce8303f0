// Package transcribe provides speech-to-text gateways for session audio.
package transcribe

import "context"

// Gateway converts an audio file into plain transcript text.
//
// Gateways make exactly one outbound call and create no files; staging of
// in-memory audio is handled by StageBytes. Upstream failures are returned
// as errors; the caller decides whether an empty transcript is acceptable.
type Gateway interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

package transcribe

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StageBytes writes an in-memory audio buffer to a uniquely named temp file
// so file-based gateways can upload it. The returned cleanup func removes
// the file and must be called whether transcription succeeds or fails.
func StageBytes(audio []byte, ext string, logger *slog.Logger) (string, func(), error) {
	if ext == "" {
		ext = ".wav"
	}
	path := filepath.Join(os.TempDir(), "clinscribe-"+uuid.NewString()+ext)

	if err := os.WriteFile(path, audio, 0600); err != nil {
		return "", nil, fmt.Errorf("stage audio: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove staged audio", "path", path, "error", err)
		} else {
			logger.Debug("removed staged audio", "path", path)
		}
	}
	return path, cleanup, nil
}

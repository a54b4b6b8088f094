package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tubequiz/internal/adapter/media"
	"tubequiz/internal/config"
	"tubequiz/internal/domain"
	"tubequiz/internal/logger"

	"go.uber.org/zap"
)

// WhisperTranscriber produces transcripts by invoking a local whisper CLI.
// The model size trades accuracy for resource cost; whether the binary runs
// on CPU or GPU is its own concern and not surfaced here.
type WhisperTranscriber struct {
	runner media.CommandRunner
	cfg    config.WhisperConfig
}

func NewWhisperTranscriber(runner media.CommandRunner, cfg config.WhisperConfig) *WhisperTranscriber {
	return &WhisperTranscriber{runner: runner, cfg: cfg}
}

var _ domain.Transcriber = (*WhisperTranscriber)(nil)

// Transcribe runs whisper on the audio file and returns the flattened text.
// The transcript file is written next to the audio, inside the fetch's temp
// directory, so the fetcher's cleanup removes it too.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outputDir := filepath.Dir(audioPath)
	args := []string{
		audioPath,
		"--model", t.cfg.Model,
		"--output_format", "txt",
		"--output_dir", outputDir,
	}

	logger.Get().Info("Transcribing audio",
		zap.String("audio", audioPath),
		zap.String("model", t.cfg.Model),
	)

	_, stderr, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, ctx.Err())
		}
		return "", fmt.Errorf("%w: %s", domain.ErrTranscriptionFailed, summarize(stderr, err))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	transcriptPath := filepath.Join(outputDir, base+".txt")
	text, readErr := os.ReadFile(transcriptPath)
	if readErr != nil {
		return "", fmt.Errorf("%w: transcript file not produced: %v", domain.ErrTranscriptionFailed, readErr)
	}

	transcript := strings.TrimSpace(string(text))
	if transcript == "" {
		return "", fmt.Errorf("%w: empty transcript", domain.ErrTranscriptionFailed)
	}
	return transcript, nil
}

func summarize(stderr string, err error) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err.Error()
	}
	if i := strings.IndexByte(stderr, '\n'); i >= 0 {
		stderr = stderr[:i]
	}
	return stderr
}

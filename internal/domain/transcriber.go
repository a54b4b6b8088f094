package domain

import (
	"context"
	"errors"
)

// ErrTranscriptionFailed signals an engine error, corrupt audio or an
// unsupported format during transcription.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Transcriber produces a flattened text transcript for an audio file.
// Whether it runs on CPU or accelerated hardware is a deployment concern
// of the implementation, not part of this contract.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

package domain

import (
	"context"
	"errors"
)

// Sentinel errors for the media fetching stage.
var (
	// ErrUnsupportedSource signals that the URL is not a recognized video link.
	ErrUnsupportedSource = errors.New("unsupported video source")
	// ErrUnreachableSource signals a network or host failure while downloading.
	ErrUnreachableSource = errors.New("video source unreachable")
	// ErrDownloadFailed signals a partial or corrupt download.
	ErrDownloadFailed = errors.New("audio download failed")
)

// MediaFetcher retrieves the best-available audio track for a video URL into
// a transient location. The returned cleanup func removes everything the
// fetch wrote and must be called on every exit path.
type MediaFetcher interface {
	// ValidateURL normalizes a raw URL to its canonical form, or returns
	// ErrUnsupportedSource.
	ValidateURL(raw string) (string, error)
	// Fetch downloads the audio track and returns the local file path.
	Fetch(ctx context.Context, url string) (path string, cleanup func(), err error)
}

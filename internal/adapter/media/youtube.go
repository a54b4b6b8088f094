package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"tubequiz/internal/config"
	"tubequiz/internal/domain"
	"tubequiz/internal/logger"

	"go.uber.org/zap"
)

const audioBaseName = "audio"

// YouTubeFetcher downloads the best-available audio track of a YouTube video
// by shelling out to yt-dlp, converting to mp3 through ffmpeg. Each fetch
// gets its own temp directory; the returned cleanup removes it entirely.
type YouTubeFetcher struct {
	runner CommandRunner
	cfg    config.MediaConfig
}

// NewYouTubeFetcher creates a fetcher using the given runner. Pass
// ExecRunner{} outside of tests.
func NewYouTubeFetcher(runner CommandRunner, cfg config.MediaConfig) *YouTubeFetcher {
	return &YouTubeFetcher{runner: runner, cfg: cfg}
}

var _ domain.MediaFetcher = (*YouTubeFetcher)(nil)

// ValidateURL normalizes and validates YouTube URLs.
// Canonical forms:
//   - Shorts -> https://www.youtube.com/shorts/<ID>
//   - Watch  -> https://www.youtube.com/watch?v=<ID>
//
// Anything that is not a recognizable YouTube link fails with
// domain.ErrUnsupportedSource.
func (f *YouTubeFetcher) ValidateURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedSource, err)
	}

	host := strings.ToLower(parsed.Hostname())
	path := parsed.Path

	// Shortened youtu.be links
	if strings.Contains(host, "youtu.be") {
		videoID := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
		return watchURL(videoID)
	}

	if strings.Contains(host, "youtube.com") || strings.Contains(host, "youtube-nocookie.com") {
		parts := splitPath(path)
		if len(parts) == 0 {
			return "", fmt.Errorf("%w: unsupported YouTube URL format", domain.ErrUnsupportedSource)
		}

		switch parts[0] {
		case "watch":
			return watchURL(parsed.Query().Get("v"))
		case "shorts":
			if len(parts) < 2 || parts[1] == "" {
				return "", fmt.Errorf("%w: shorts URL missing video id", domain.ErrUnsupportedSource)
			}
			return "https://www.youtube.com/shorts/" + parts[1], nil
		case "embed":
			if len(parts) < 2 {
				return watchURL("")
			}
			return watchURL(parts[1])
		}
		return "", fmt.Errorf("%w: unsupported YouTube URL format", domain.ErrUnsupportedSource)
	}

	return "", fmt.Errorf("%w: URL is not a YouTube link", domain.ErrUnsupportedSource)
}

// Fetch downloads the audio track into a scoped temp directory and returns
// the mp3 path. Requires ffmpeg in PATH for the mp3 extraction step.
func (f *YouTubeFetcher) Fetch(ctx context.Context, videoURL string) (string, func(), error) {
	if _, err := f.runner.LookPath("ffmpeg"); err != nil {
		return "", nil, fmt.Errorf("%w: ffmpeg not found in PATH, install FFmpeg to enable audio extraction",
			domain.ErrDownloadFailed)
	}

	dir, err := os.MkdirTemp(f.cfg.TempDir, "tubequiz-audio-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating temp dir: %v", domain.ErrDownloadFailed, err)
	}
	cleanup := func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Get().Warn("Failed to remove temp audio dir", zap.String("dir", dir), zap.Error(rmErr))
		}
	}

	outputTemplate := filepath.Join(dir, audioBaseName+".%(ext)s")
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"-o", outputTemplate,
		videoURL,
	}

	logger.Get().Info("Downloading audio", zap.String("url", videoURL), zap.String("dir", dir))

	_, stderr, err := f.runner.Run(ctx, f.cfg.YTDLPBinary, args...)
	if err != nil {
		cleanup()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
			return "", nil, fmt.Errorf("%w: %v", domain.ErrUnreachableSource, ctx.Err())
		}
		if isNetworkFailure(stderr) {
			return "", nil, fmt.Errorf("%w: %s", domain.ErrUnreachableSource, firstLine(stderr))
		}
		return "", nil, fmt.Errorf("%w: %s", domain.ErrDownloadFailed, firstLine(stderr))
	}

	audioPath := filepath.Join(dir, audioBaseName+".mp3")
	info, statErr := os.Stat(audioPath)
	if statErr != nil || info.Size() == 0 {
		cleanup()
		return "", nil, fmt.Errorf("%w: no audio file produced", domain.ErrDownloadFailed)
	}

	return audioPath, cleanup, nil
}

func watchURL(videoID string) (string, error) {
	if videoID == "" {
		return "", fmt.Errorf("%w: missing video id", domain.ErrUnsupportedSource)
	}
	return "https://www.youtube.com/watch?v=" + videoID, nil
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func isNetworkFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range []string{"unable to download", "network", "connection", "timed out", "temporary failure", "name or service not known"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

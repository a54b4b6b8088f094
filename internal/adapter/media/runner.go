package media

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner abstracts external process execution so adapters that shell
// out to yt-dlp or whisper can be tested without the binaries installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
	LookPath(file string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Package media inspects uploaded video files.
package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrProbeFailed indicates ffprobe could not read a duration from the file
var ErrProbeFailed = errors.New("media probe failed")

// Prober reports the duration of a video in whole seconds
type Prober interface {
	Duration(ctx context.Context, data []byte, filename string) (int, error)
}

// FFProbe runs the ffprobe binary against a temporary copy of the upload
type FFProbe struct {
	Path string
}

// NewFFProbe creates a prober for the binary at path, falling back to
// "ffprobe" on PATH when path is empty.
func NewFFProbe(path string) *FFProbe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFProbe{Path: path}
}

// Duration reports the container duration of data in whole seconds, rounded
// to the nearest second. filename only supplies the extension ffprobe sniffs.
func (p *FFProbe) Duration(ctx context.Context, data []byte, filename string) (int, error) {
	tmp, err := os.CreateTemp("", "vidora-probe-*"+filepath.Ext(filename))
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.CommandContext(
		ctx, p.Path,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		tmp.Name(),
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	return parseDuration(string(output))
}

// parseDuration rounds ffprobe's fractional seconds to the nearest second
func parseDuration(output string) (int, error) {
	s := strings.TrimSpace(output)
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: unparseable duration %q", ErrProbeFailed, s)
	}
	return int(math.Round(seconds)), nil
}

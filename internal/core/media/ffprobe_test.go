package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"12.480000\n", 12},
		{"12.5", 13},
		{"0.2", 0},
		{"  3600.000  ", 3600},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, input := range []string{"", "N/A", "-1", "NaN"} {
		_, err := parseDuration(input)
		assert.ErrorIs(t, err, ErrProbeFailed, input)
	}
}

func TestFFProbe_MissingBinary(t *testing.T) {
	p := NewFFProbe("/nonexistent/ffprobe-binary")

	_, err := p.Duration(context.Background(), []byte("not a video"), "clip.mp4")
	assert.ErrorIs(t, err, ErrProbeFailed)
}

func TestNewFFProbe_DefaultPath(t *testing.T) {
	assert.Equal(t, "ffprobe", NewFFProbe("").Path)
}

func TestFFProbe_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFFProbe("").Duration(ctx, []byte("not a video"), "clip.mp4")
	assert.ErrorIs(t, err, ErrProbeFailed)
}

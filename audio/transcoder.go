package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Canonical PCM format accepted by the speech recognition service: mono
// 16-bit little-endian samples at 16 kHz.
const (
	SampleRate = 16000
	Channels   = 1
)

// Transcoder converts browser-captured audio (typically webm/opus) into the
// canonical PCM wav format.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
	Duration(ctx context.Context, path string) (float64, error)
}

type FFmpegTranscoder struct {
	logger *slog.Logger
}

func NewFFmpegTranscoder(logger *slog.Logger) *FFmpegTranscoder {
	return &FFmpegTranscoder{logger: logger}
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	args := transcodeArgs(inputPath, outputPath)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg transcode failed: %w: %s", err, tail(string(out), 400))
	}

	t.logger.Debug("Transcoded audio to canonical PCM",
		slog.String("input", inputPath),
		slog.String("output", outputPath))
	return nil
}

// Duration gets the length of an audio file in seconds using ffprobe.
func (t *FFmpegTranscoder) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-i", path,
		"-show_entries", "format=duration", "-v", "quiet", "-of", "csv=p=0")
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

func transcodeArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-acodec", "pcm_s16le",
		outputPath,
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// ErrSynthesis marks a text-to-speech failure after the degraded fallback
// was also attempted.
var ErrSynthesis = errors.New("speech synthesis failed")

// Synthesizer renders text to a spoken audio file at the given path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// EspeakSynthesizer shells out to espeak-ng with a fixed voice and speaking
// rate. If the configured voice is unknown to the engine, one retry without
// the voice flag falls back to the engine default.
type EspeakSynthesizer struct {
	voice  string
	rate   int
	logger *slog.Logger
}

func NewEspeakSynthesizer(voice string, rate int, logger *slog.Logger) *EspeakSynthesizer {
	return &EspeakSynthesizer{
		voice:  voice,
		rate:   rate,
		logger: logger,
	}
}

func (s *EspeakSynthesizer) Synthesize(ctx context.Context, text, outputPath string) error {
	out, err := runEspeak(ctx, espeakArgs(s.voice, s.rate, text, outputPath))
	if err == nil {
		return nil
	}

	if s.voice != "" {
		s.logger.Warn("Synthesis with configured voice failed, falling back to engine default",
			slog.String("voice", s.voice),
			slog.String("error", err.Error()))
		if _, retryErr := runEspeak(ctx, espeakArgs("", s.rate, text, outputPath)); retryErr == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: espeak-ng: %v: %s", ErrSynthesis, err, strings.TrimSpace(out))
}

func runEspeak(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "espeak-ng", args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func espeakArgs(voice string, rate int, text, outputPath string) []string {
	args := []string{"-s", strconv.Itoa(rate), "-w", outputPath}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return append(args, text)
}

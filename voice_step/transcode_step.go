package voice_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/leitor/audio"
	"github.com/serisow/leitor/pipeline_type"
)

// TranscodeStepImpl converts the staged upload (typically webm/opus from a
// browser recorder) into the canonical mono 16-bit PCM wav the speech
// service reads by path. Both paths are allocated and released by the
// request handler.
type TranscodeStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Transcoder   audio.Transcoder
	Logger       *slog.Logger
}

func (s *TranscodeStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *TranscodeStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	inputPath, err := stringFromContext(pipelineContext, pipeline_type.KeyStagedAudioPath)
	if err != nil {
		return err
	}
	outputPath, err := stringFromContext(pipelineContext, pipeline_type.KeyCanonicalAudioPath)
	if err != nil {
		return err
	}

	if err := s.Transcoder.Transcode(ctx, inputPath, outputPath); err != nil {
		return err
	}

	// Duration is informational only; a probe failure never fails the turn.
	if duration, err := s.Transcoder.Duration(ctx, outputPath); err == nil {
		s.Logger.Debug("Canonical audio ready",
			slog.String("path", outputPath),
			slog.Float64("duration_seconds", duration))
	}

	return nil
}

func (s *TranscodeStepImpl) GetType() string {
	return "transcode_step"
}

func stringFromContext(pipelineContext *pipeline_type.Context, key string) (string, error) {
	raw, ok := pipelineContext.Get(key)
	if !ok {
		return "", fmt.Errorf("%s missing from pipeline context", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s has unexpected type %T", key, raw)
	}
	return value, nil
}

package voice_step

import (
	"context"
	"log/slog"

	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/speech"
)

// TranscribeStepImpl sends the canonical audio to the speech-to-text service.
// An unintelligible result aborts the pipeline before any model call is
// made; the handler turns it into a "please repeat" response.
type TranscribeStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Transcriber  speech.Transcriber
	Language     string
	Logger       *slog.Logger
}

func (s *TranscribeStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *TranscribeStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	audioPath, err := stringFromContext(pipelineContext, pipeline_type.KeyCanonicalAudioPath)
	if err != nil {
		return err
	}

	transcript, err := s.Transcriber.Transcribe(ctx, audioPath, s.Language)
	if err != nil {
		return err
	}

	pipelineContext.SetStepOutput(pipeline_type.KeyTranscript, transcript)

	s.Logger.Info("Voice query transcribed",
		slog.String("language", s.Language),
		slog.Int("transcript_length", len(transcript)))

	return nil
}

func (s *TranscribeStepImpl) GetType() string {
	return "transcribe_step"
}

package voice_step

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/speech"
)

// ApologyMessage is the degraded fallback spoken when synthesis of the real
// reply fails. One fallback attempt, never an infinite retry.
const ApologyMessage = "Desculpe, tive um problema ao gerar a resposta de áudio."

// SynthesizeStepImpl turns the model reply into spoken audio. The output
// file path is allocated by the request handler; the step writes to it,
// reads the bytes back into the context, and leaves file removal to the
// handler's scoped release.
type SynthesizeStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Synthesizer  speech.Synthesizer
	Logger       *slog.Logger
}

func (s *SynthesizeStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *SynthesizeStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	raw, ok := pipelineContext.GetStepOutput(pipeline_type.KeyModelReply)
	if !ok {
		return fmt.Errorf("model reply missing from pipeline context")
	}
	reply, ok := raw.(string)
	if !ok {
		return fmt.Errorf("model reply has unexpected type %T", raw)
	}

	outputPath, err := stringFromContext(pipelineContext, pipeline_type.KeyReplyAudioPath)
	if err != nil {
		return err
	}

	spoken := reply
	if err := s.Synthesizer.Synthesize(ctx, reply, outputPath); err != nil {
		s.Logger.Error("Synthesis of model reply failed, attempting apology fallback",
			slog.String("error", err.Error()))

		if fallbackErr := s.Synthesizer.Synthesize(ctx, ApologyMessage, outputPath); fallbackErr != nil {
			return fmt.Errorf("%w: fallback also failed: %v", speech.ErrSynthesis, fallbackErr)
		}
		spoken = ApologyMessage
		pipelineContext.SetStepOutput(pipeline_type.KeyModelReply, ApologyMessage)
	}

	audioBytes, err := os.ReadFile(outputPath)
	if err != nil {
		return fmt.Errorf("%w: reading synthesized audio: %v", speech.ErrSynthesis, err)
	}
	if len(audioBytes) == 0 {
		return fmt.Errorf("%w: synthesizer produced no audio", speech.ErrSynthesis)
	}

	pipelineContext.Set(pipeline_type.KeyReplyAudio, audioBytes)

	s.Logger.Info("Voice reply synthesized",
		slog.Int("text_length", len(spoken)),
		slog.Int("audio_bytes", len(audioBytes)))

	return nil
}

func (s *SynthesizeStepImpl) GetType() string {
	return "synthesize_step"
}

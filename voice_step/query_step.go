package voice_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/leitor/llm_service"
	"github.com/serisow/leitor/pipeline_type"
)

// QueryStepImpl forwards the transcript verbatim to the language model with
// a short fixed instruction. Each turn is independent; no conversation
// history is carried.
type QueryStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	LLMService   llm_service.LLMService
	LLMConfig    map[string]interface{}
	Logger       *slog.Logger
}

func (s *QueryStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *QueryStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	raw, ok := pipelineContext.GetStepOutput(pipeline_type.KeyTranscript)
	if !ok {
		return fmt.Errorf("transcript missing from pipeline context")
	}
	transcript, ok := raw.(string)
	if !ok {
		return fmt.Errorf("transcript has unexpected type %T", raw)
	}

	prompt := fmt.Sprintf("O usuário perguntou: %q. Responda de forma concisa e útil.", transcript)
	reply, err := s.LLMService.CallLLM(ctx, s.LLMConfig, prompt)
	if err != nil {
		return fmt.Errorf("error calling language model for voice query: %w", err)
	}

	pipelineContext.SetStepOutput(pipeline_type.KeyModelReply, reply)

	s.Logger.Info("Voice query answered",
		slog.Int("transcript_length", len(transcript)),
		slog.Int("reply_length", len(reply)))

	return nil
}

func (s *QueryStepImpl) GetType() string {
	return "voice_query_step"
}

package document_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/rewriter"
)

// RewriteStepImpl is the optional AI stage: it turns the aggregated OCR text
// into an accessible HTML fragment. When it fails the pipeline fails, and
// the caller falls back to the aggregated text already in the context.
type RewriteStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Rewriter     *rewriter.Rewriter
	Logger       *slog.Logger
}

func (s *RewriteStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *RewriteStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	raw, ok := pipelineContext.GetStepOutput(pipeline_type.KeyAggregatedText)
	if !ok {
		return fmt.Errorf("aggregated text missing from pipeline context")
	}
	text, ok := raw.(string)
	if !ok {
		return fmt.Errorf("aggregated text has unexpected type %T", raw)
	}

	html, err := s.Rewriter.Rewrite(ctx, text)
	if err != nil {
		return err
	}

	pipelineContext.SetStepOutput(pipeline_type.KeyAccessibleHTML, html)

	s.Logger.Info("Rewrite stage complete",
		slog.Int("fragment_length", len(html)))

	return nil
}

func (s *RewriteStepImpl) GetType() string {
	return "rewrite_step"
}

package document_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/leitor/pipeline_type"
)

// AggregateStepImpl joins the ordered per-page OCR output into the single
// text blob handed to both the direct-display path and the rewriter.
type AggregateStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Logger       *slog.Logger
}

func (s *AggregateStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *AggregateStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	raw, ok := pipelineContext.Get(pipeline_type.KeyPageTexts)
	if !ok {
		return fmt.Errorf("page texts missing from pipeline context")
	}
	pages, ok := raw.([]pipeline_type.PageText)
	if !ok {
		return fmt.Errorf("page texts have unexpected type %T", raw)
	}

	text := pipeline_type.AggregatePages(pages)
	pipelineContext.SetStepOutput(pipeline_type.KeyAggregatedText, text)

	s.Logger.Debug("Aggregated pages",
		slog.Int("page_count", len(pages)),
		slog.Int("total_length", len(text)))

	return nil
}

func (s *AggregateStepImpl) GetType() string {
	return "aggregate_step"
}

package step

import (
	"context"

	"github.com/serisow/leitor/pipeline_type"
)

type Step interface {
	Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error

	GetType() string
}

// Configurable is implemented by steps that take their PipelineStep
// descriptor from the pipeline executor before running.
type Configurable interface {
	Configure(ps pipeline_type.PipelineStep)
}

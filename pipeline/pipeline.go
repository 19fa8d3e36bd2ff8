package pipeline

import (
	"context"
	"fmt"

	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/plugin_registry"
	"github.com/serisow/leitor/step"
)

// Execute runs the pipeline's steps in order, failing fast on the first
// error. Step errors are wrapped with the step identity so callers can tell
// which stage faulted while still unwrapping the underlying condition.
func Execute(ctx context.Context, p *pipeline_type.Pipeline, registry *plugin_registry.PluginRegistry) error {
	if p.Context == nil {
		p.Context = pipeline_type.NewContext()
	}

	for _, pipelineStep := range p.Steps {
		instance, err := registry.GetStepInstance(pipelineStep.Type)
		if err != nil {
			return err
		}

		if configurable, ok := instance.(step.Configurable); ok {
			configurable.Configure(pipelineStep)
		}

		if err := instance.Execute(ctx, p.Context); err != nil {
			return fmt.Errorf("error executing step %s: %w", pipelineStep.ID, err)
		}
	}

	return nil
}

package pipeline_type

// Pipeline is one ordered run of processing stages. A pipeline is built per
// request, executed once, and discarded with the request.
type Pipeline struct {
	ID      string
	Label   string
	Steps   []PipelineStep
	Context *Context
}

// PipelineStep describes one stage of a pipeline. The Type selects the step
// implementation registered in the plugin registry; builders assign weights
// in execution order.
type PipelineStep struct {
	ID              string
	Type            string
	Weight          int
	StepDescription string
	StepOutputKey   string
}

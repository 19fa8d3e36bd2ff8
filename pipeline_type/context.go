package pipeline_type

// Context keys shared between steps and handlers. Data holds typed values
// (paths, page slices, audio bytes); StepOutputs holds the user-visible
// string results keyed by StepOutputKey.
const (
	KeyDocumentPath       = "document_path"
	KeyPageTexts          = "page_texts"
	KeyAggregatedText     = "aggregated_text"
	KeyAccessibleHTML     = "accessible_html"
	KeyStagedAudioPath    = "staged_audio_path"
	KeyCanonicalAudioPath = "canonical_audio_path"
	KeyReplyAudioPath     = "reply_audio_path"
	KeyTranscript         = "transcript"
	KeyModelReply         = "model_reply"
	KeyReplyAudio         = "reply_audio"
)

type Context struct {
	Data        map[string]interface{}
	StepOutputs map[string]interface{}
}

func NewContext() *Context {
	return &Context{
		Data:        make(map[string]interface{}),
		StepOutputs: make(map[string]interface{}),
	}
}

func (c *Context) Set(key string, value interface{}) {
	c.Data[key] = value
}

func (c *Context) Get(key string) (interface{}, bool) {
	val, ok := c.Data[key]
	return val, ok
}

func (c *Context) SetStepOutput(key string, value interface{}) {
	c.StepOutputs[key] = value
}

func (c *Context) GetStepOutput(key string) (interface{}, bool) {
	val, ok := c.StepOutputs[key]
	return val, ok
}

package pipeline

import (
	"github.com/google/uuid"

	"github.com/serisow/leitor/pipeline_type"
)

// The three user-visible flows are one pipeline with optional stages, not
// parallel code paths: the document flow optionally carries the rewrite
// stage, and the rewrite-only flow is the same stage run on posted text.

// BuildDocumentPipeline enumerates the active stages of the
// document-to-accessible-content flow.
func BuildDocumentPipeline(withRewrite bool) *pipeline_type.Pipeline {
	steps := []pipeline_type.PipelineStep{
		{
			ID:              "document_ocr",
			Type:            "document_ocr_step",
			Weight:          0,
			StepDescription: "Rasterize the upload and recognize each page in order",
		},
		{
			ID:              "aggregate",
			Type:            "aggregate_step",
			Weight:          1,
			StepDescription: "Join per-page text into one ordered blob",
			StepOutputKey:   pipeline_type.KeyAggregatedText,
		},
	}
	if withRewrite {
		steps = append(steps, rewriteStep(2))
	}

	return &pipeline_type.Pipeline{
		ID:      uuid.New().String(),
		Label:   "document-to-accessible-content",
		Steps:   steps,
		Context: pipeline_type.NewContext(),
	}
}

// BuildRewritePipeline restructures previously extracted OCR text without
// re-running extraction.
func BuildRewritePipeline() *pipeline_type.Pipeline {
	return &pipeline_type.Pipeline{
		ID:      uuid.New().String(),
		Label:   "rewrite-only",
		Steps:   []pipeline_type.PipelineStep{rewriteStep(0)},
		Context: pipeline_type.NewContext(),
	}
}

// BuildVoicePipeline enumerates the stages of one voice turn.
func BuildVoicePipeline() *pipeline_type.Pipeline {
	return &pipeline_type.Pipeline{
		ID:    uuid.New().String(),
		Label: "voice-query",
		Steps: []pipeline_type.PipelineStep{
			{
				ID:              "transcode",
				Type:            "transcode_step",
				Weight:          0,
				StepDescription: "Decode the uploaded clip into canonical PCM",
			},
			{
				ID:              "transcribe",
				Type:            "transcribe_step",
				Weight:          1,
				StepDescription: "Transcribe canonical audio to text",
				StepOutputKey:   pipeline_type.KeyTranscript,
			},
			{
				ID:              "voice_query",
				Type:            "voice_query_step",
				Weight:          2,
				StepDescription: "Forward the transcript to the language model",
				StepOutputKey:   pipeline_type.KeyModelReply,
			},
			{
				ID:              "synthesize",
				Type:            "synthesize_step",
				Weight:          3,
				StepDescription: "Speak the model reply",
			},
		},
		Context: pipeline_type.NewContext(),
	}
}

func rewriteStep(weight int) pipeline_type.PipelineStep {
	return pipeline_type.PipelineStep{
		ID:              "rewrite",
		Type:            "rewrite_step",
		Weight:          weight,
		StepDescription: "Restructure aggregated text into accessible HTML",
		StepOutputKey:   pipeline_type.KeyAccessibleHTML,
	}
}

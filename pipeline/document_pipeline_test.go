package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/serisow/leitor/document_step"
	"github.com/serisow/leitor/llm_service"
	"github.com/serisow/leitor/ocrservice"
	"github.com/serisow/leitor/pipeline"
	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/plugin_registry"
	"github.com/serisow/leitor/rasterizer"
	"github.com/serisow/leitor/rewriter"
	"github.com/serisow/leitor/step"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePageSource yields one page per entry, with the entry bytes as the page
// image data.
type fakePageSource struct {
	pages [][]byte
	err   error
}

func (f *fakePageSource) EachPage(ctx context.Context, path string, fn func(pipeline_type.PageImage) error) error {
	if f.err != nil {
		return f.err
	}
	for i, data := range f.pages {
		page := pipeline_type.PageImage{Index: i, Width: 100, Height: 100, PNG: data}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

// echoRecognizer returns the page image bytes as the recognized text.
var echoRecognizer = &ocrservice.MockRecognizer{
	RecognizeFunc: func(ctx context.Context, image []byte, languages []string) (string, error) {
		return string(image), nil
	},
}

func buildDocumentRegistry(pages document_step.PageSource, recognizer ocrservice.Recognizer, llm llm_service.LLMService) *plugin_registry.PluginRegistry {
	logger := testLogger()
	registry := plugin_registry.NewPluginRegistry()

	registry.RegisterStepType("document_ocr_step", func() step.Step {
		return &document_step.OCRStepImpl{
			Pages:      pages,
			Recognizer: recognizer,
			Languages:  []string{"por", "eng"},
			Logger:     logger,
		}
	})
	registry.RegisterStepType("aggregate_step", func() step.Step {
		return &document_step.AggregateStepImpl{Logger: logger}
	})
	registry.RegisterStepType("rewrite_step", func() step.Step {
		return &document_step.RewriteStepImpl{
			Rewriter: rewriter.New(llm, map[string]interface{}{}, logger),
			Logger:   logger,
		}
	})

	return registry
}

func TestDocumentPipelineDirectPath(t *testing.T) {
	source := &fakePageSource{pages: [][]byte{[]byte("P0"), []byte("P1"), []byte("P2")}}
	registry := buildDocumentRegistry(source, echoRecognizer, nil)

	p := pipeline.BuildDocumentPipeline(false)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/doc.pdf")

	if err := pipeline.Execute(context.Background(), p, registry); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	raw, ok := p.Context.GetStepOutput(pipeline_type.KeyAggregatedText)
	if !ok {
		t.Fatal("Expected aggregated text in context")
	}
	if got := raw.(string); got != "P0\n\nP1\n\nP2" {
		t.Errorf("Expected aggregated text 'P0\\n\\nP1\\n\\nP2', got %q", got)
	}

	rawPages, ok := p.Context.Get(pipeline_type.KeyPageTexts)
	if !ok {
		t.Fatal("Expected page texts in context")
	}
	pages := rawPages.([]pipeline_type.PageText)
	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	for i, page := range pages {
		if page.Index != i {
			t.Errorf("Expected page %d to keep index %d, got %d", i, i, page.Index)
		}
	}

	if _, ok := p.Context.GetStepOutput(pipeline_type.KeyAccessibleHTML); ok {
		t.Error("Rewrite stage must not run when disabled")
	}
}

func TestDocumentPipelineBlankPageKeepsSlot(t *testing.T) {
	source := &fakePageSource{pages: [][]byte{[]byte("a"), []byte(""), []byte("c")}}
	registry := buildDocumentRegistry(source, echoRecognizer, nil)

	p := pipeline.BuildDocumentPipeline(false)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/doc.pdf")

	if err := pipeline.Execute(context.Background(), p, registry); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	raw, _ := p.Context.GetStepOutput(pipeline_type.KeyAggregatedText)
	if got := raw.(string); got != "a\n\n\n\nc" {
		t.Errorf("Expected blank page preserved in aggregation, got %q", got)
	}
}

func TestDocumentPipelineWithRewrite(t *testing.T) {
	source := &fakePageSource{pages: [][]byte{[]byte("f(x) = x^2")}}
	llm := &llm_service.MockLLMService{
		CallLLMFunc: func(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
			return "<h1>Função</h1><p>A função f de x é igual a x ao quadrado.</p>", nil
		},
	}
	registry := buildDocumentRegistry(source, echoRecognizer, llm)

	p := pipeline.BuildDocumentPipeline(true)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/doc.pdf")

	if err := pipeline.Execute(context.Background(), p, registry); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	raw, ok := p.Context.GetStepOutput(pipeline_type.KeyAccessibleHTML)
	if !ok {
		t.Fatal("Expected accessible HTML in context")
	}
	if got := raw.(string); got != "<h1>Função</h1><p>A função f de x é igual a x ao quadrado.</p>" {
		t.Errorf("Unexpected fragment: %q", got)
	}
}

func TestDocumentPipelineRewriteFailureLeavesAggregatedText(t *testing.T) {
	source := &fakePageSource{pages: [][]byte{[]byte("page text")}}
	llm := &llm_service.MockLLMService{
		CallLLMFunc: func(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
			return "", fmt.Errorf("model endpoint down")
		},
	}
	registry := buildDocumentRegistry(source, echoRecognizer, llm)

	p := pipeline.BuildDocumentPipeline(true)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/doc.pdf")

	err := pipeline.Execute(context.Background(), p, registry)
	if !errors.Is(err, rewriter.ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable through the step wrapper, got %v", err)
	}

	// The extraction stages already ran; their output must survive for the
	// caller's plain-text fallback.
	raw, ok := p.Context.GetStepOutput(pipeline_type.KeyAggregatedText)
	if !ok {
		t.Fatal("Expected aggregated text to survive a rewrite failure")
	}
	if got := raw.(string); got != "page text" {
		t.Errorf("Expected aggregated text 'page text', got %q", got)
	}
}

func TestDocumentPipelineUnsupportedFormatPropagates(t *testing.T) {
	source := &fakePageSource{err: fmt.Errorf("%w: %q", rasterizer.ErrUnsupportedFormat, ".txt")}
	registry := buildDocumentRegistry(source, echoRecognizer, nil)

	p := pipeline.BuildDocumentPipeline(false)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/notes.txt")

	err := pipeline.Execute(context.Background(), p, registry)
	if !errors.Is(err, rasterizer.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat through the step wrapper, got %v", err)
	}
}

func TestDocumentPipelineRecognizerFailureAborts(t *testing.T) {
	source := &fakePageSource{pages: [][]byte{[]byte("P0"), []byte("P1")}}
	failing := &ocrservice.MockRecognizer{
		RecognizeFunc: func(ctx context.Context, image []byte, languages []string) (string, error) {
			if string(image) == "P1" {
				return "", fmt.Errorf("%w: engine crashed", ocrservice.ErrEngine)
			}
			return string(image), nil
		},
	}
	registry := buildDocumentRegistry(source, failing, nil)

	p := pipeline.BuildDocumentPipeline(false)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/doc.pdf")

	err := pipeline.Execute(context.Background(), p, registry)
	if !errors.Is(err, ocrservice.ErrEngine) {
		t.Fatalf("Expected ErrEngine, got %v", err)
	}
	if _, ok := p.Context.GetStepOutput(pipeline_type.KeyAggregatedText); ok {
		t.Error("A page failure must abort the document before aggregation")
	}
}

func TestExecuteUnknownStepType(t *testing.T) {
	registry := plugin_registry.NewPluginRegistry()

	p := pipeline.BuildDocumentPipeline(false)
	p.Context.Set(pipeline_type.KeyDocumentPath, "/scratch/doc.pdf")

	if err := pipeline.Execute(context.Background(), p, registry); err == nil {
		t.Error("Expected an error for an unregistered step type")
	}
}

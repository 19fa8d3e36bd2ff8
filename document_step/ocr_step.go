package document_step

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/serisow/leitor/ocrservice"
	"github.com/serisow/leitor/pipeline_type"
)

// PageSource yields a document's pages in order, one at a time.
// *rasterizer.Rasterizer is the production implementation.
type PageSource interface {
	EachPage(ctx context.Context, path string, fn func(pipeline_type.PageImage) error) error
}

// OCRStepImpl drives the rasterizer page by page and recognizes each page as
// it is produced. Page images are discarded after recognition; only the
// ordered PageText slice survives the step.
type OCRStepImpl struct {
	PipelineStep pipeline_type.PipelineStep
	Pages        PageSource
	Recognizer   ocrservice.Recognizer
	Languages    []string
	Logger       *slog.Logger
}

func (s *OCRStepImpl) Configure(ps pipeline_type.PipelineStep) {
	s.PipelineStep = ps
}

func (s *OCRStepImpl) Execute(ctx context.Context, pipelineContext *pipeline_type.Context) error {
	raw, ok := pipelineContext.Get(pipeline_type.KeyDocumentPath)
	if !ok {
		return fmt.Errorf("document path missing from pipeline context")
	}
	path, ok := raw.(string)
	if !ok {
		return fmt.Errorf("document path has unexpected type %T", raw)
	}

	var pages []pipeline_type.PageText
	err := s.Pages.EachPage(ctx, path, func(img pipeline_type.PageImage) error {
		pageText, err := ocrservice.Extract(ctx, s.Recognizer, img, s.Languages)
		if err != nil {
			return err
		}
		pages = append(pages, pageText)
		s.Logger.Debug("Recognized page",
			slog.Int("page_index", img.Index),
			slog.Int("width", img.Width),
			slog.Int("height", img.Height),
			slog.Int("text_length", len(pageText.Text)))
		return nil
	})
	if err != nil {
		return err
	}

	pipelineContext.Set(pipeline_type.KeyPageTexts, pages)

	s.Logger.Info("Document OCR complete",
		slog.String("path", path),
		slog.Int("page_count", len(pages)))

	return nil
}

func (s *OCRStepImpl) GetType() string {
	return "document_ocr_step"
}

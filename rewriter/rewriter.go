package rewriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/serisow/leitor/llm_service"
)

// ErrUnavailable marks a failed or empty rewrite. Callers fall back to the
// plain aggregated text; nothing is retried here beyond the LLM client's own
// policy.
var ErrUnavailable = errors.New("accessibility rewrite unavailable")

// Rewriter restructures aggregated OCR text into a semantic, screen-reader
// friendly HTML fragment through a single generative model call.
type Rewriter struct {
	llm       llm_service.LLMService
	llmConfig map[string]interface{}
	logger    *slog.Logger
}

func New(llm llm_service.LLMService, llmConfig map[string]interface{}, logger *slog.Logger) *Rewriter {
	return &Rewriter{
		llm:       llm,
		llmConfig: llmConfig,
		logger:    logger,
	}
}

func (rw *Rewriter) Rewrite(ctx context.Context, ocrText string) (string, error) {
	if strings.TrimSpace(ocrText) == "" {
		return "", fmt.Errorf("%w: empty input text", ErrUnavailable)
	}

	prompt := BuildPrompt(ocrText)
	raw, err := rw.llm.CallLLM(ctx, rw.llmConfig, prompt)
	if err != nil {
		rw.logger.Error("Accessibility rewrite call failed",
			slog.Int("input_length", len(ocrText)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	fragment := CleanFragment(raw)
	if strings.TrimSpace(fragment) == "" {
		return "", fmt.Errorf("%w: model returned empty content", ErrUnavailable)
	}

	rw.logger.Info("Accessibility rewrite produced fragment",
		slog.Int("input_length", len(ocrText)),
		slog.Int("fragment_length", len(fragment)))

	return fragment, nil
}

// CleanFragment normalizes the model output into an embeddable body
// fragment: markdown code fences are stripped, and if the model ignored the
// instruction and returned a full document, the body content is extracted.
func CleanFragment(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```html")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<body") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err != nil {
			return s
		}
		inner, err := doc.Find("body").Html()
		if err != nil {
			return s
		}
		return strings.TrimSpace(inner)
	}

	return s
}

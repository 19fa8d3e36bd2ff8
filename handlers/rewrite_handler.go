package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/serisow/leitor/pipeline"
	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/plugin_registry"
	"github.com/serisow/leitor/rewriter"
)

// RewriteHandler re-runs the AI restructuring stage on previously extracted
// OCR text, without a fresh upload.
type RewriteHandler struct {
	registry *plugin_registry.PluginRegistry
	logger   *slog.Logger
}

func NewRewriteHandler(registry *plugin_registry.PluginRegistry, logger *slog.Logger) *RewriteHandler {
	return &RewriteHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *RewriteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("ocr_text")
	if strings.TrimSpace(text) == "" {
		writeJSONError(w, "Empty text", http.StatusBadRequest)
		return
	}

	p := pipeline.BuildRewritePipeline()
	p.Context.SetStepOutput(pipeline_type.KeyAggregatedText, text)

	if err := pipeline.Execute(r.Context(), p, h.registry); err != nil {
		if errors.Is(err, rewriter.ErrUnavailable) {
			writeJSONError(w, "Accessibility rewrite is unavailable right now. The original text is unchanged.", http.StatusBadGateway)
			return
		}
		h.logger.Error("Rewrite pipeline failed", slog.String("error", err.Error()))
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	content := pipeline_type.AccessibleContent{
		Filename: "Documento Adaptado",
		Source:   pipeline_type.ContentSourceAI,
	}
	if raw, ok := p.Context.GetStepOutput(pipeline_type.KeyAccessibleHTML); ok {
		if html, ok := raw.(string); ok {
			content.Content = html
		}
	}

	writeJSON(w, content, http.StatusOK)
}

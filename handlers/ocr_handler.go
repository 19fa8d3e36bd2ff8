package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/serisow/leitor/pipeline"
	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/plugin_registry"
	"github.com/serisow/leitor/rasterizer"
	"github.com/serisow/leitor/rewriter"
	"github.com/serisow/leitor/scratch"
)

// OCRHandler runs the document-to-accessible-content pipeline on one
// uploaded file. The optional "rewrite" form field enables the AI stage;
// when that stage is unavailable the response falls back to the plain
// aggregated text instead of showing nothing.
type OCRHandler struct {
	registry       *plugin_registry.PluginRegistry
	documents      *scratch.Store
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewOCRHandler(registry *plugin_registry.PluginRegistry, documents *scratch.Store, maxUploadBytes int64, logger *slog.Logger) *OCRHandler {
	return &OCRHandler{
		registry:       registry,
		documents:      documents,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *OCRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received document upload request")

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSONError(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "No file uploaded. Please choose a PDF or image.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	if buf.Len() == 0 {
		writeJSONError(w, "Uploaded file is empty. Please choose a PDF or image.", http.StatusBadRequest)
		return
	}

	staged, err := h.documents.Stage(buf.Bytes(), header.Filename)
	if err != nil {
		if errors.Is(err, scratch.ErrEmptyName) {
			writeJSONError(w, "Invalid file name", http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to stage upload", slog.String("error", err.Error()))
		writeJSONError(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	defer h.documents.Release(staged)

	withRewrite := r.FormValue("rewrite") == "1"

	p := pipeline.BuildDocumentPipeline(withRewrite)
	p.Context.Set(pipeline_type.KeyDocumentPath, staged.Path())

	err = pipeline.Execute(r.Context(), p, h.registry)

	switch {
	case err == nil:
		writeJSON(w, accessibleContentFromContext(p.Context, header.Filename, withRewrite), http.StatusOK)

	case errors.Is(err, rasterizer.ErrUnsupportedFormat):
		writeJSONError(w, "Unsupported file format. Please upload a PDF or image.", http.StatusUnsupportedMediaType)

	case errors.Is(err, rewriter.ErrUnavailable):
		// The extraction stages already ran; serve their output instead of
		// failing the whole request.
		h.logger.Warn("Rewrite unavailable, falling back to plain text",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		writeJSON(w, accessibleContentFromContext(p.Context, header.Filename, false), http.StatusOK)

	default:
		h.logger.Error("Document pipeline failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

func accessibleContentFromContext(ctx *pipeline_type.Context, filename string, fromRewrite bool) pipeline_type.AccessibleContent {
	content := pipeline_type.AccessibleContent{
		Filename: filename,
		Source:   pipeline_type.ContentSourceOCR,
	}

	if raw, ok := ctx.Get(pipeline_type.KeyPageTexts); ok {
		if pages, ok := raw.([]pipeline_type.PageText); ok {
			content.PageCount = len(pages)
		}
	}

	if fromRewrite {
		if raw, ok := ctx.GetStepOutput(pipeline_type.KeyAccessibleHTML); ok {
			if html, ok := raw.(string); ok {
				content.Source = pipeline_type.ContentSourceAI
				content.Content = html
				return content
			}
		}
	}

	if raw, ok := ctx.GetStepOutput(pipeline_type.KeyAggregatedText); ok {
		if text, ok := raw.(string); ok {
			content.Content = text
		}
	}

	return content
}

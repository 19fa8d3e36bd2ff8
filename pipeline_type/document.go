package pipeline_type

import "strings"

// PageImage is one rasterized page: fixed-resolution RGB raster, PNG encoded,
// page index zero-based and order significant. Produced by the rasterizer,
// consumed and discarded by the OCR extractor.
type PageImage struct {
	Index  int
	Width  int
	Height int
	PNG    []byte
}

// PageText is the OCR output for one PageImage. The index always matches the
// originating page, even when the recognized text is empty (blank pages are
// legitimate and must keep their slot).
type PageText struct {
	Index    int
	Text     string
	Language string
}

// PageSeparator joins pages in the aggregated document.
const PageSeparator = "\n\n"

// AggregatePages joins per-page OCR output into a single ordered text blob.
// No page is dropped, reordered, or deduplicated.
func AggregatePages(pages []PageText) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, PageSeparator)
}

// Content sources for AccessibleContent. Downstream rendering differs: plain
// OCR text is escaped, AI output is a trusted HTML fragment.
const (
	ContentSourceOCR = "ocr"
	ContentSourceAI  = "ai"
)

// AccessibleContent is the final representation handed to the rendering
// layer: either the plain aggregated text or the model-rewritten HTML.
type AccessibleContent struct {
	Filename  string `json:"filename"`
	Source    string `json:"source"`
	Content   string `json:"content"`
	PageCount int    `json:"page_count"`
}

// VoiceExchange is the transient record of one voice turn. Nothing is
// retained across turns.
type VoiceExchange struct {
	Transcript string
	Reply      string
	Audio      []byte
}

package ocrservice

import (
	"context"
	"errors"
	"strings"

	"github.com/serisow/leitor/pipeline_type"
)

// ErrEngine marks a recognizer fault. Fatal per request; never retried here.
var ErrEngine = errors.New("ocr engine failure")

// Recognizer converts a single encoded page image into plain text. It is a
// pure function of the pixel data: no layout analysis happens here, and an
// empty result is not an error (blank pages are legitimate).
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, languages []string) (string, error)
}

// Extract runs one page through the recognizer and wraps the output in a
// PageText that keeps the originating page index, even for empty pages.
func Extract(ctx context.Context, r Recognizer, page pipeline_type.PageImage, languages []string) (pipeline_type.PageText, error) {
	text, err := r.Recognize(ctx, page.PNG, languages)
	if err != nil {
		return pipeline_type.PageText{}, err
	}
	return pipeline_type.PageText{
		Index:    page.Index,
		Text:     text,
		Language: strings.Join(languages, "+"),
	}, nil
}

package ocrservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer runs OCR through the local Tesseract engine. One
// client per call; gosseract clients are not safe to share.
type TesseractRecognizer struct {
	logger *slog.Logger
}

func NewTesseractRecognizer(logger *slog.Logger) *TesseractRecognizer {
	return &TesseractRecognizer{logger: logger}
}

func (t *TesseractRecognizer) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("%w: set image: %v", ErrEngine, err)
	}
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("%w: set languages: %v", ErrEngine, err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}

	t.logger.Debug("Recognized page image",
		slog.Int("image_bytes", len(image)),
		slog.Int("text_length", len(text)))

	return text, nil
}

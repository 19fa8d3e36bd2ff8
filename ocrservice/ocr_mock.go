package ocrservice

import "context"

type MockRecognizer struct {
	RecognizeFunc func(ctx context.Context, image []byte, languages []string) (string, error)
}

func (m *MockRecognizer) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, image, languages)
	}
	return "mock text", nil
}

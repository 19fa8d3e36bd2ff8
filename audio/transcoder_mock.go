package audio

import "context"

type MockTranscoder struct {
	TranscodeFunc func(ctx context.Context, inputPath, outputPath string) error
	DurationFunc  func(ctx context.Context, path string) (float64, error)
}

func (m *MockTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if m.TranscodeFunc != nil {
		return m.TranscodeFunc(ctx, inputPath, outputPath)
	}
	return nil
}

func (m *MockTranscoder) Duration(ctx context.Context, path string) (float64, error) {
	if m.DurationFunc != nil {
		return m.DurationFunc(ctx, path)
	}
	return 0, nil
}

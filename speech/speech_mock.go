package speech

import "context"

type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audioPath, language string) (string, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath, language)
	}
	return "mock transcript", nil
}

type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text, outputPath string) error
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text, outputPath string) error {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, outputPath)
	}
	return nil
}

package speech

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEspeakArgs(t *testing.T) {
	tests := []struct {
		name  string
		voice string
		rate  int
		want  []string
	}{
		{
			name:  "with configured voice",
			voice: "pt-br",
			rate:  150,
			want:  []string{"-s", "150", "-w", "/scratch/reply.wav", "-v", "pt-br", "olá"},
		},
		{
			name:  "engine default voice",
			voice: "",
			rate:  150,
			want:  []string{"-s", "150", "-w", "/scratch/reply.wav", "olá"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := espeakArgs(tt.voice, tt.rate, "olá", "/scratch/reply.wav")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected args %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEspeakSynthesizeProducesAudio(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		t.Skip("espeak-ng not installed")
	}

	s := NewEspeakSynthesizer("pt-br", 150, testLogger())

	outputPath := filepath.Join(t.TempDir(), "reply.wav")
	if err := s.Synthesize(context.Background(), "olá mundo", outputPath); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty audio output")
	}
}

func TestEspeakSynthesizeUnknownVoiceFallsBack(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		t.Skip("espeak-ng not installed")
	}

	s := NewEspeakSynthesizer("no-such-voice-zz", 150, testLogger())

	outputPath := filepath.Join(t.TempDir(), "reply.wav")
	if err := s.Synthesize(context.Background(), "olá", outputPath); err != nil {
		t.Fatalf("Expected fallback to the default voice, got %v", err)
	}
}

package speech

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canonical.wav")
	if err := os.WriteFile(path, []byte("RIFF pcm data"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	var capturedLang, capturedContentType string
	var capturedBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedLang = r.URL.Query().Get("lang")
		capturedContentType = r.Header.Get("Content-Type")
		capturedBody, _ = io.ReadAll(r.Body)
		// The service answers with newline-delimited JSON: an empty first
		// line, then the final result.
		io.WriteString(w, `{"result":[]}`+"\n")
		io.WriteString(w, `{"result":[{"alternative":[{"transcript":"que horas são"},{"transcript":"que horas sao"}],"final":true}],"result_index":0}`+"\n")
	}))
	defer server.Close()

	tr := NewGoogleTranscriber(server.URL, "test-key", 5*time.Second, testLogger())
	got, err := tr.Transcribe(context.Background(), writeTestAudio(t), "pt-BR")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "que horas são" {
		t.Errorf("Expected first alternative, got %q", got)
	}
	if capturedLang != "pt-BR" {
		t.Errorf("Expected lang pt-BR, got %q", capturedLang)
	}
	if capturedContentType != "audio/l16; rate=16000" {
		t.Errorf("Expected raw PCM content type, got %q", capturedContentType)
	}
	if string(capturedBody) != "RIFF pcm data" {
		t.Errorf("Expected raw file bytes as request body, got %q", capturedBody)
	}
}

func TestTranscribeUnintelligible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[]}`+"\n")
	}))
	defer server.Close()

	tr := NewGoogleTranscriber(server.URL, "", 5*time.Second, testLogger())
	_, err := tr.Transcribe(context.Background(), writeTestAudio(t), "pt-BR")
	if !errors.Is(err, ErrUnintelligible) {
		t.Errorf("Expected ErrUnintelligible for an empty result, got %v", err)
	}
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	tr := NewGoogleTranscriber(server.URL, "", 5*time.Second, testLogger())
	_, err := tr.Transcribe(context.Background(), writeTestAudio(t), "pt-BR")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable for a non-200 status, got %v", err)
	}
}

func TestTranscribeUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	tr := NewGoogleTranscriber(server.URL, "", time.Second, testLogger())
	_, err := tr.Transcribe(context.Background(), writeTestAudio(t), "pt-BR")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable for an unreachable service, got %v", err)
	}
}

func TestTranscribeMissingAudioFile(t *testing.T) {
	tr := NewGoogleTranscriber("http://localhost", "", time.Second, testLogger())
	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), "pt-BR")
	if err == nil {
		t.Error("Expected an error for a missing audio file")
	}
	if errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrUnintelligible) {
		t.Errorf("A local read failure is neither a service nor a speech condition: %v", err)
	}
}

func TestParseRecognitionResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "first non-empty alternative wins",
			body: `{"result":[]}` + "\n" +
				`{"result":[{"alternative":[{"transcript":"primeira"},{"transcript":"segunda"}]}]}`,
			want: "primeira",
		},
		{
			name: "whitespace-only alternative skipped",
			body: `{"result":[{"alternative":[{"transcript":"   "},{"transcript":"útil"}]}]}`,
			want: "útil",
		},
		{
			name:    "no alternatives at all",
			body:    `{"result":[]}` + "\n" + `{"result":[]}`,
			wantErr: ErrUnintelligible,
		},
		{
			name:    "blank body",
			body:    "\n\n",
			wantErr: ErrUnintelligible,
		},
		{
			name:    "unparseable lines ignored",
			body:    "garbage\n{not json}\n",
			wantErr: ErrUnintelligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRecognitionResponse(strings.NewReader(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/serisow/leitor/audio"
)

var (
	// ErrUnintelligible means the service heard the audio but produced no
	// transcript. User-facing and recoverable: ask the user to repeat.
	ErrUnintelligible = errors.New("speech was unintelligible")

	// ErrServiceUnavailable means the recognition service could not be
	// reached or answered with an error. Surfaced as a server fault, never
	// silently swallowed.
	ErrServiceUnavailable = errors.New("speech recognition service unavailable")
)

// Transcriber converts canonical PCM audio, read by path, into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// GoogleTranscriber calls the Google Web Speech API with raw 16 kHz PCM
// content. The response is a stream of JSON lines; the first line carrying
// alternatives wins.
type GoogleTranscriber struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	logger     *slog.Logger
}

func NewGoogleTranscriber(apiURL, apiKey string, timeout time.Duration, logger *slog.Logger) *GoogleTranscriber {
	return &GoogleTranscriber{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read canonical audio: %w", err)
	}

	params := url.Values{}
	params.Set("client", "chromium")
	params.Set("lang", language)
	params.Set("key", g.apiKey)
	fullURL := fmt.Sprintf("%s?%s", g.apiURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "POST", fullURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", audio.SampleRate))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	transcript, err := parseRecognitionResponse(resp.Body)
	if err != nil {
		return "", err
	}

	g.logger.Info("Transcribed voice query",
		slog.String("language", language),
		slog.Int("transcript_length", len(transcript)))

	return transcript, nil
}

type recognitionResult struct {
	Result []struct {
		Alternative []struct {
			Transcript string `json:"transcript"`
		} `json:"alternative"`
		Final bool `json:"final"`
	} `json:"result"`
}

// parseRecognitionResponse scans the newline-delimited JSON the service
// returns. An answer with no usable alternative is the "unintelligible"
// condition, distinct from a transport failure.
func parseRecognitionResponse(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var res recognitionResult
		if err := json.Unmarshal([]byte(line), &res); err != nil {
			continue
		}
		for _, result := range res.Result {
			for _, alt := range result.Alternative {
				if strings.TrimSpace(alt.Transcript) != "" {
					return alt.Transcript, nil
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	return "", ErrUnintelligible
}

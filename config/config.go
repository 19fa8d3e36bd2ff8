package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string
	HTTPPort     string
	HTTPSPort    string
	Domains      []string
	CertCacheDir string

	// Gemini generative model
	GeminiAPIURL string
	GeminiAPIKey string
	GeminiModel  string

	// OCR
	OCRLanguages []string
	RasterDPI    int

	// Speech recognition (Google Web Speech API)
	SpeechAPIURL   string
	SpeechAPIKey   string
	SpeechLanguage string

	// Speech synthesis (espeak-ng)
	TTSVoice string
	TTSRate  int

	// External call policy
	ExternalCallTimeout time.Duration
	ExternalCallRetries int
	RetryBackoff        time.Duration

	// Scratch storage
	DocumentScratchDir string
	AudioScratchDir    string
	ScratchRetention   time.Duration
	SweepInterval      time.Duration

	MaxUploadBytes int64
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		HTTPPort:     getEnv("HTTP_PORT", "8086"),
		HTTPSPort:    getEnv("HTTPS_PORT", "443"),
		Domains:      []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir: getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),

		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		OCRLanguages: strings.Split(getEnv("OCR_LANGUAGES", "por+eng"), "+"),
		RasterDPI:    getEnvAsInt("RASTER_DPI", 200),

		SpeechAPIURL:   getEnv("SPEECH_API_URL", "http://www.google.com/speech-api/v2/recognize"),
		SpeechAPIKey:   getEnv("SPEECH_API_KEY", ""),
		SpeechLanguage: getEnv("SPEECH_LANGUAGE", "pt-BR"),

		TTSVoice: getEnv("TTS_VOICE", "pt-br"),
		TTSRate:  getEnvAsInt("TTS_RATE", 150),

		ExternalCallTimeout: time.Duration(getEnvAsInt("EXTERNAL_CALL_TIMEOUT", 120)) * time.Second,
		ExternalCallRetries: getEnvAsInt("EXTERNAL_CALL_RETRIES", 1),
		RetryBackoff:        time.Duration(getEnvAsInt("RETRY_BACKOFF", 5)) * time.Second,

		DocumentScratchDir: getEnv("DOCUMENT_SCRATCH_DIR", "tmp/documents"),
		AudioScratchDir:    getEnv("AUDIO_SCRATCH_DIR", "tmp/audio"),
		ScratchRetention:   time.Duration(getEnvAsInt("SCRATCH_RETENTION", 3600)) * time.Second,
		SweepInterval:      time.Duration(getEnvAsInt("SWEEP_INTERVAL", 900)) * time.Second,

		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 20<<20)),
	}
}

// GeminiServiceConfig builds the per-call configuration map consumed by the
// LLM service layer.
func (c Config) GeminiServiceConfig() map[string]interface{} {
	return map[string]interface{}{
		"api_url":    c.GeminiAPIURL,
		"api_key":    c.GeminiAPIKey,
		"model_name": c.GeminiModel,
		"parameters": map[string]interface{}{
			"temperature": 1.0,
			"top_k":       40,
			"top_p":       0.95,
			"max_tokens":  8192,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

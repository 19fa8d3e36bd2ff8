package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %q", cfg.Environment)
	}
	if len(cfg.OCRLanguages) != 2 || cfg.OCRLanguages[0] != "por" || cfg.OCRLanguages[1] != "eng" {
		t.Errorf("Expected default OCR languages [por eng], got %v", cfg.OCRLanguages)
	}
	if cfg.RasterDPI != 200 {
		t.Errorf("Expected default raster DPI 200, got %d", cfg.RasterDPI)
	}
	if cfg.SpeechLanguage != "pt-BR" {
		t.Errorf("Expected default speech language pt-BR, got %q", cfg.SpeechLanguage)
	}
	if cfg.TTSRate != 150 {
		t.Errorf("Expected default TTS rate 150, got %d", cfg.TTSRate)
	}
	if cfg.ExternalCallTimeout != 120*time.Second {
		t.Errorf("Expected default call timeout 120s, got %v", cfg.ExternalCallTimeout)
	}
	if cfg.ExternalCallRetries != 1 {
		t.Errorf("Expected default retries 1, got %d", cfg.ExternalCallRetries)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OCR_LANGUAGES", "fra")
	t.Setenv("RASTER_DPI", "300")
	t.Setenv("TTS_RATE", "not a number")

	cfg := Load()

	if len(cfg.OCRLanguages) != 1 || cfg.OCRLanguages[0] != "fra" {
		t.Errorf("Expected OCR languages [fra], got %v", cfg.OCRLanguages)
	}
	if cfg.RasterDPI != 300 {
		t.Errorf("Expected raster DPI 300, got %d", cfg.RasterDPI)
	}
	if cfg.TTSRate != 150 {
		t.Errorf("Expected fallback TTS rate for an unparseable value, got %d", cfg.TTSRate)
	}
}

func TestGeminiServiceConfig(t *testing.T) {
	cfg := Config{
		GeminiAPIURL: "https://example.test/generate",
		GeminiAPIKey: "secret",
		GeminiModel:  "gemini-2.0-flash",
	}

	serviceConfig := cfg.GeminiServiceConfig()
	if serviceConfig["api_url"] != "https://example.test/generate" {
		t.Errorf("Expected api_url passed through, got %v", serviceConfig["api_url"])
	}
	if serviceConfig["api_key"] != "secret" {
		t.Errorf("Expected api_key passed through, got %v", serviceConfig["api_key"])
	}

	params, ok := serviceConfig["parameters"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected a parameters map")
	}
	if params["max_tokens"] != 8192 {
		t.Errorf("Expected max_tokens 8192, got %v", params["max_tokens"])
	}
}

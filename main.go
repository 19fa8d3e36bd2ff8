package main

import (
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/serisow/leitor/audio"
	"github.com/serisow/leitor/config"
	"github.com/serisow/leitor/document_step"
	"github.com/serisow/leitor/llm_service"
	"github.com/serisow/leitor/logging"
	"github.com/serisow/leitor/ocrservice"
	"github.com/serisow/leitor/plugin_registry"
	"github.com/serisow/leitor/rasterizer"
	"github.com/serisow/leitor/rewriter"
	"github.com/serisow/leitor/scratch"
	"github.com/serisow/leitor/server"
	"github.com/serisow/leitor/speech"
	"github.com/serisow/leitor/step"
	"github.com/serisow/leitor/voice_step"
)

func main() {
	cfg := config.Load()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Two scratch namespaces: document uploads and voice audio never share
	// file names.
	documents, err := scratch.NewStore(cfg.DocumentScratchDir, logger)
	if err != nil {
		log.Fatalf("Failed to create document scratch store: %v", err)
	}
	audioStore, err := scratch.NewStore(cfg.AudioScratchDir, logger)
	if err != nil {
		log.Fatalf("Failed to create audio scratch store: %v", err)
	}

	sweeper := scratch.NewSweeper(logger, cfg.ScratchRetention, documents, audioStore)
	sweeper.StartSweepSchedule(cfg.SweepInterval)

	registry := plugin_registry.NewPluginRegistry()
	registerServices(registry, cfg, logger)
	registerStepTypes(registry, cfg, documents, logger)

	r := server.SetupRoutes(cfg, registry, documents, audioStore, logger)
	n := setupNegroni(r)

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg)
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		}
		server.ServeDevelopment(srv)
	}
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}

func registerServices(registry *plugin_registry.PluginRegistry, cfg config.Config, logger *slog.Logger) {
	opts := llm_service.Options{
		Timeout: cfg.ExternalCallTimeout,
		Retries: cfg.ExternalCallRetries,
		Backoff: cfg.RetryBackoff,
	}
	registry.RegisterLLMService("gemini", llm_service.NewGeminiService(logger, opts))
}

func registerStepTypes(registry *plugin_registry.PluginRegistry, cfg config.Config, documents *scratch.Store, logger *slog.Logger) {
	gemini, ok := registry.GetLLMService("gemini")
	if !ok {
		log.Fatal("gemini LLM service is not registered")
	}
	geminiConfig := cfg.GeminiServiceConfig()

	pageSource := rasterizer.New(cfg.RasterDPI, documents, logger)
	recognizer := ocrservice.NewTesseractRecognizer(logger)
	htmlRewriter := rewriter.New(gemini, geminiConfig, logger)
	transcoder := audio.NewFFmpegTranscoder(logger)
	transcriber := speech.NewGoogleTranscriber(cfg.SpeechAPIURL, cfg.SpeechAPIKey, cfg.ExternalCallTimeout, logger)
	synthesizer := speech.NewEspeakSynthesizer(cfg.TTSVoice, cfg.TTSRate, logger)

	registry.RegisterStepType("document_ocr_step", func() step.Step {
		return &document_step.OCRStepImpl{
			Pages:      pageSource,
			Recognizer: recognizer,
			Languages:  cfg.OCRLanguages,
			Logger:     logger,
		}
	})
	registry.RegisterStepType("aggregate_step", func() step.Step {
		return &document_step.AggregateStepImpl{Logger: logger}
	})
	registry.RegisterStepType("rewrite_step", func() step.Step {
		return &document_step.RewriteStepImpl{
			Rewriter: htmlRewriter,
			Logger:   logger,
		}
	})

	registry.RegisterStepType("transcode_step", func() step.Step {
		return &voice_step.TranscodeStepImpl{
			Transcoder: transcoder,
			Logger:     logger,
		}
	})
	registry.RegisterStepType("transcribe_step", func() step.Step {
		return &voice_step.TranscribeStepImpl{
			Transcriber: transcriber,
			Language:    cfg.SpeechLanguage,
			Logger:      logger,
		}
	})
	registry.RegisterStepType("voice_query_step", func() step.Step {
		return &voice_step.QueryStepImpl{
			LLMService: gemini,
			LLMConfig:  geminiConfig,
			Logger:     logger,
		}
	})
	registry.RegisterStepType("synthesize_step", func() step.Step {
		return &voice_step.SynthesizeStepImpl{
			Synthesizer: synthesizer,
			Logger:      logger,
		}
	})
}

func initLogger() (*slog.Logger, error) {
	logDir := filepath.Join("logs", "leitor")

	fileHandler, err := logging.NewDailyFileHandler(logDir, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, err
	}

	return slog.New(fileHandler), nil
}

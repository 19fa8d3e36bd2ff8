package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/serisow/leitor/pipeline"
	"github.com/serisow/leitor/pipeline_type"
	"github.com/serisow/leitor/plugin_registry"
	"github.com/serisow/leitor/scratch"
	"github.com/serisow/leitor/speech"
)

// VoiceHandler runs one voice turn: stage the uploaded clip, transcode,
// transcribe, query the model, synthesize, and answer with the spoken reply.
// All scratch files for the turn are owned here and released on every exit
// path.
type VoiceHandler struct {
	registry       *plugin_registry.PluginRegistry
	audioStore     *scratch.Store
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewVoiceHandler(registry *plugin_registry.PluginRegistry, audioStore *scratch.Store, maxUploadBytes int64, logger *slog.Logger) *VoiceHandler {
	return &VoiceHandler{
		registry:       registry,
		audioStore:     audioStore,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *VoiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received voice query")

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSONError(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSONError(w, "No audio received", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeJSONError(w, "Failed to read audio", http.StatusInternalServerError)
		return
	}
	if buf.Len() == 0 {
		writeJSONError(w, "No audio received", http.StatusBadRequest)
		return
	}

	staged, err := h.audioStore.Stage(buf.Bytes(), header.Filename)
	if err != nil {
		if errors.Is(err, scratch.ErrEmptyName) {
			writeJSONError(w, "Invalid audio file name", http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to stage audio", slog.String("error", err.Error()))
		writeJSONError(w, "Failed to store audio", http.StatusInternalServerError)
		return
	}
	defer h.audioStore.Release(staged)

	canonical, err := h.audioStore.Allocate("canonical.wav")
	if err != nil {
		writeJSONError(w, "Failed to prepare audio workspace", http.StatusInternalServerError)
		return
	}
	defer h.audioStore.Release(canonical)

	reply, err := h.audioStore.Allocate("reply.wav")
	if err != nil {
		writeJSONError(w, "Failed to prepare audio workspace", http.StatusInternalServerError)
		return
	}
	defer h.audioStore.Release(reply)

	p := pipeline.BuildVoicePipeline()
	p.Context.Set(pipeline_type.KeyStagedAudioPath, staged.Path())
	p.Context.Set(pipeline_type.KeyCanonicalAudioPath, canonical.Path())
	p.Context.Set(pipeline_type.KeyReplyAudioPath, reply.Path())

	err = pipeline.Execute(r.Context(), p, h.registry)

	switch {
	case err == nil:
		// fall through to the audio response below

	case errors.Is(err, speech.ErrUnintelligible):
		writeJSONError(w, "Could not understand your speech. Could you repeat?", http.StatusBadRequest)
		return

	case errors.Is(err, speech.ErrServiceUnavailable):
		h.logger.Error("Speech recognition service unavailable", slog.String("error", err.Error()))
		writeJSONError(w, "Speech recognition service error", http.StatusBadGateway)
		return

	case errors.Is(err, speech.ErrSynthesis):
		h.logger.Error("Speech synthesis failed", slog.String("error", err.Error()))
		writeJSONError(w, "Failed to generate the audio reply", http.StatusInternalServerError)
		return

	default:
		h.logger.Error("Voice pipeline failed", slog.String("error", err.Error()))
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	exchange := voiceExchangeFromContext(p.Context)
	if len(exchange.Audio) == 0 {
		writeJSONError(w, "Voice pipeline produced no audio", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Voice turn complete",
		slog.Int("transcript_length", len(exchange.Transcript)),
		slog.Int("reply_length", len(exchange.Reply)),
		slog.Int("audio_bytes", len(exchange.Audio)))

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	w.Write(exchange.Audio)
}

func voiceExchangeFromContext(ctx *pipeline_type.Context) pipeline_type.VoiceExchange {
	var exchange pipeline_type.VoiceExchange
	if raw, ok := ctx.GetStepOutput(pipeline_type.KeyTranscript); ok {
		exchange.Transcript, _ = raw.(string)
	}
	if raw, ok := ctx.GetStepOutput(pipeline_type.KeyModelReply); ok {
		exchange.Reply, _ = raw.(string)
	}
	if raw, ok := ctx.Get(pipeline_type.KeyReplyAudio); ok {
		exchange.Audio, _ = raw.([]byte)
	}
	return exchange
}

package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	spatial "Lenscalc/internal/calc/spatial"
	"Lenscalc/internal/storage"
	"github.com/rs/zerolog/log"
)

type Input struct {
	Meta
	Lens spatial.Input `json:"lens"`
}

type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Handler struct {
	// Store is optional; Archive answers 503 without it.
	Store storage.ReportStore
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input.Meta, input.Lens, spatial.Calculate(input.Lens), h.now()); err != nil {
		log.Error().Err(err).Msg("render report")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"spatial-report.pdf\"")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("write report")
	}
}

// Archive renders the report, uploads it to the report store and returns
// a download link.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "Report archive is not configured", http.StatusServiceUnavailable)
		return
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input.Meta, input.Lens, spatial.Calculate(input.Lens), h.now()); err != nil {
		log.Error().Err(err).Msg("render report")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}

	key := storage.ReportKey("pdf")
	if err := h.Store.Put(r.Context(), key, "application/pdf", buf.Bytes()); err != nil {
		log.Error().Err(err).Str("key", key).Msg("upload report")
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	url, err := h.Store.DownloadURL(r.Context(), key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("presign report")
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}

	log.Info().Str("key", key).Int("bytes", buf.Len()).Msg("report archived")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ArchiveResult{Key: key, URL: url}); err != nil {
		log.Error().Err(err).Str("key", key).Msg("encode archive response")
	}
}

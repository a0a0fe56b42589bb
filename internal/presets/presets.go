package presets

import (
	"Lenscalc/internal/auth"
	spatial "Lenscalc/internal/calc/spatial"
	"Lenscalc/internal/repo"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const maxNameLength = 100

type PresetHandler struct {
	Repo repo.PresetRepository
}

type CreatePresetRequest struct {
	Name string        `json:"name"`
	Lens spatial.Input `json:"lens"`
}

// AnalysisResponse pairs a stored preset with a fresh calculation.
type AnalysisResponse struct {
	Preset repo.Preset    `json:"preset"`
	Result spatial.Result `json:"result"`
}

func (h *PresetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.Repo.ListPresets(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("list presets")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PresetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > maxNameLength {
		http.Error(w, "Name required (up to 100 characters)", http.StatusBadRequest)
		return
	}

	p := &repo.Preset{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   req.Name,
		Lens:   req.Lens,
	}
	if err := h.Repo.CreatePreset(r.Context(), p); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("create preset")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PresetHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Analyze runs the calculator on a stored preset.
func (h *PresetHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, AnalysisResponse{Preset: *p, Result: spatial.Calculate(p.Lens)})
}

func (h *PresetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ids(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeletePreset(r.Context(), userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Preset not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("preset_id", id.String()).Msg("delete preset")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PresetHandler) load(w http.ResponseWriter, r *http.Request) (*repo.Preset, bool) {
	userID, id, ok := ids(w, r)
	if !ok {
		return nil, false
	}
	p, err := h.Repo.GetPreset(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Preset not found", http.StatusNotFound)
			return nil, false
		}
		log.Error().Err(err).Str("preset_id", id.String()).Msg("get preset")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return nil, false
	}
	return p, true
}

func ids(w http.ResponseWriter, r *http.Request) (int, uuid.UUID, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, uuid.Nil, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid preset id", http.StatusBadRequest)
		return 0, uuid.Nil, false
	}
	return userID, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

package spatial

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type Handler struct{}

// Calc accepts the input as a JSON body (POST) or as query parameters (GET).
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		input = InputFromValues(q.Get)
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	writeJSON(w, Calculate(input))
}

func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, DefaultInput())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

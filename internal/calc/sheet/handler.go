package sheet

import (
	"encoding/json"
	"fmt"
	"net/http"

	batch "Lenscalc/internal/calc/batch"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 10 << 20 // 10MB

type ExportInput struct {
	Items []NamedInput `json:"items"`
}

type Handler struct{}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file)
	if err != nil {
		log.Warn().Err(err).Msg("spreadsheet import")
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Int("rows", res.Count).Msg("encode import response")
	}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var input ExportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Items) == 0 {
		http.Error(w, "no items", http.StatusBadRequest)
		return
	}
	if len(input.Items) > batch.MaxItems {
		http.Error(w, fmt.Sprintf("too many items: %d > %d", len(input.Items), batch.MaxItems), http.StatusBadRequest)
		return
	}

	f, err := Export(Evaluate(input.Items))
	if err != nil {
		log.Error().Err(err).Msg("spreadsheet export")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"spatial.xlsx\"")
	if err := f.Write(w); err != nil {
		log.Warn().Err(err).Msg("write workbook")
	}
}

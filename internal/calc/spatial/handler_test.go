package spatial

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerCalc(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
		wantNy   float64
	}{
		{
			name:     "json body",
			method:   http.MethodPost,
			target:   "/api/tools/spatial/calc",
			body:     `{"efl":2.12,"res_h":2560,"res_v":1938,"pixel_size":0.002,"center_factor":3,"corner_factor":4,"test_distance":500}`,
			wantCode: http.StatusOK,
			wantNy:   250,
		},
		{
			name:     "query string",
			method:   http.MethodGet,
			target:   "/api/tools/spatial/calc?efl=2.12&res_h=2560&res_v=1938&pixel_size=0.001&center_factor=3&corner_factor=4&test_distance=500",
			wantCode: http.StatusOK,
			wantNy:   500,
		},
		{
			name:     "unparseable query values become zero",
			method:   http.MethodGet,
			target:   "/api/tools/spatial/calc?pixel_size=abc",
			wantCode: http.StatusOK,
			wantNy:   0,
		},
		{
			name:     "bad json",
			method:   http.MethodPost,
			target:   "/api/tools/spatial/calc",
			body:     `{"efl":`,
			wantCode: http.StatusBadRequest,
		},
	}

	h := &Handler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Calc(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var out struct {
				NyLpmm float64 `json:"ny_lpmm"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
			assert.InDelta(t, tt.wantNy, out.NyLpmm, 1e-9)
		})
	}
}

func TestHandlerDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Defaults(rec, httptest.NewRequest(http.MethodGet, "/api/tools/spatial/defaults", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var in Input
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&in))
	assert.Equal(t, DefaultInput(), in)
}

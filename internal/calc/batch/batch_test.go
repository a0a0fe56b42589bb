package batch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	spatial "Lenscalc/internal/calc/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	wide := spatial.DefaultInput()
	wide.PixelSize = 0.004

	res, err := Calculate(BatchInput{Items: []spatial.Input{spatial.DefaultInput(), wide}})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.InDelta(t, 250.0, res.Results[0].NyLpmm, 1e-9)
	assert.InDelta(t, 125.0, res.Results[1].NyLpmm, 1e-9)
}

func TestCalculateLimits(t *testing.T) {
	_, err := Calculate(BatchInput{})
	assert.EqualError(t, err, "no items")

	_, err = Calculate(BatchInput{Items: make([]spatial.Input, MaxItems+1)})
	assert.Error(t, err)

	res, err := Calculate(BatchInput{Items: make([]spatial.Input, 3)})
	require.NoError(t, err)
	assert.Equal(t, spatial.PointAnalysis{}, res.Results[2].Center)
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"ok", `{"items":[{"efl":2.12,"res_h":2560,"res_v":1938,"pixel_size":0.002,"center_factor":3,"corner_factor":4,"test_distance":500}]}`, http.StatusOK},
		{"empty", `{"items":[]}`, http.StatusBadRequest},
		{"garbage", `not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/tools/spatial/batch", strings.NewReader(tt.body))
			(&Handler{}).Calc(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

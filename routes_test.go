package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "Lenscalc/internal/config"
	repo "Lenscalc/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type stubRepo struct{}

func (stubRepo) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	return 0, assert.AnError
}
func (stubRepo) GetBylogin(ctx context.Context, login string) (int, string, error) {
	return 0, "", nil
}
func (stubRepo) ListPresets(ctx context.Context, userID int) ([]repo.Preset, error) {
	return nil, nil
}
func (stubRepo) CreatePreset(ctx context.Context, p *repo.Preset) error { return nil }
func (stubRepo) GetPreset(ctx context.Context, userID int, id uuid.UUID) (*repo.Preset, error) {
	return nil, repo.ErrNotFound
}
func (stubRepo) DeletePreset(ctx context.Context, userID int, id uuid.UUID) error {
	return repo.ErrNotFound
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			StaticDir:      t.TempDir(),
			AllowedOrigins: []string{"http://localhost:5173"},
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Auth: config.AuthConfig{TokenKey: "test-key"},
	}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestCalculatorOnlyRoutes(t *testing.T) {
	h := HandleList(mux.NewRouter(), testConfig(t), Services{})

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
	}{
		{"defaults", http.MethodGet, "/api/tools/spatial/defaults", "", http.StatusOK},
		{"calc query", http.MethodGet, "/api/tools/spatial/calc?efl=2.12&pixel_size=0.002", "", http.StatusOK},
		{"calc body", http.MethodPost, "/api/tools/spatial/calc", `{"efl":2.12,"pixel_size":0.002,"center_factor":3}`, http.StatusOK},
		{"batch", http.MethodPost, "/api/tools/spatial/batch", `{"items":[{"efl":1}]}`, http.StatusOK},
		{"archive without store", http.MethodPost, "/api/tools/spatial/report/archive", `{"lens":{"efl":1}}`, http.StatusServiceUnavailable},
		{"health", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"openapi", http.MethodGet, "/api/v1/openapi.json", "", http.StatusOK},
		{"presets disabled", http.MethodGet, "/api/user/presets", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, do(h, tt.method, tt.target, tt.body).Code)
		})
	}
}

func TestAccountRoutes(t *testing.T) {
	h := HandleList(mux.NewRouter(), testConfig(t), Services{Users: stubRepo{}, Presets: stubRepo{}})

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/user/presets", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/login", `{"login":"nobody","password":"secret1"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodPost, "/api/logout", "").Code)
}

func TestCORS(t *testing.T) {
	h := HandleList(mux.NewRouter(), testConfig(t), Services{})

	req := httptest.NewRequest(http.MethodOptions, "/api/tools/spatial/calc", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleListMountsTypedAPI(t *testing.T) {
	var h http.Handler
	assert.NotPanics(t, func() {
		h = HandleList(mux.NewRouter(), testConfig(t), Services{})
	})

	rec := do(h, http.MethodPost, "/api/v1/spatial/batch", `{"items":[{"efl":2.12,"pixel_size":0.002,"center_factor":3}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, do(h, http.MethodGet, "/api/v1/openapi.json", "").Body.String(), "BatchInput")
}

package api

import (
	"context"
	"net/http"
	"time"

	batch "Lenscalc/internal/calc/batch"
	spatial "Lenscalc/internal/calc/spatial"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const Prefix = "/api/v1"

// New mounts the typed API and its OpenAPI document on router.
func New(router *mux.Router, version string) huma.API {
	config := huma.DefaultConfig("Lenscalc API", version)
	config.OpenAPIPath = Prefix + "/openapi"
	config.DocsPath = Prefix + "/docs"
	config.SchemasPath = Prefix + "/schemas"

	api := humamux.New(router, config)
	Register(api, version)
	return api
}

// Register adds every typed operation to api.
func Register(api huma.API, version string) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        Prefix + "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*HealthResponse, error) {
		resp := &HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "analyzeSpatial",
		Method:      http.MethodPost,
		Path:        Prefix + "/spatial/analyze",
		Summary:     "Analyze a lens",
		Description: "Derives Nyquist frequency, sensor geometry, field of view, object-plane widths and TV lines for the center and corner factors. Degenerate inputs give zeroed points, never an error.",
		Tags:        []string{"Spatial"},
	}, func(ctx context.Context, input *AnalyzeRequest) (*AnalyzeResponse, error) {
		return &AnalyzeResponse{Body: spatial.Calculate(input.Body)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "analyzeSpatialBatch",
		Method:      http.MethodPost,
		Path:        Prefix + "/spatial/batch",
		Summary:     "Analyze several lenses",
		Description: "Runs the analysis for each parameter set in order",
		Tags:        []string{"Spatial"},
	}, func(ctx context.Context, input *BatchRequest) (*BatchResponse, error) {
		res, err := batch.Calculate(input.Body)
		if err != nil {
			log.Info().Err(err).Int("items", len(input.Body.Items)).Msg("batch rejected")
			return nil, huma.Error400BadRequest(err.Error(), err)
		}
		return &BatchResponse{Body: res}, nil
	})
}

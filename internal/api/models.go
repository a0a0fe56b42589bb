package api

import (
	"time"

	batch "Lenscalc/internal/calc/batch"
	spatial "Lenscalc/internal/calc/spatial"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// AnalyzeRequest carries one lens and sensor parameter set
type AnalyzeRequest struct {
	Body spatial.Input
}

// AnalyzeResponse carries the spatial analysis for one parameter set
type AnalyzeResponse struct {
	Body spatial.Result
}

// BatchRequest carries several parameter sets
type BatchRequest struct {
	Body batch.BatchInput
}

// BatchResponse carries one analysis per requested parameter set, in order
type BatchResponse struct {
	Body batch.BatchResult
}

package batch

import (
	"fmt"

	spatial "Lenscalc/internal/calc/spatial"
)

// MaxItems caps a single batch request.
const MaxItems = 1000

type BatchInput struct {
	Items []spatial.Input `json:"items" maxItems:"1000"`
}

type BatchResult struct {
	Results []spatial.Result `json:"results"`
}

func Calculate(in BatchInput) (BatchResult, error) {
	if len(in.Items) == 0 {
		return BatchResult{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return BatchResult{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	out := BatchResult{Results: make([]spatial.Result, 0, len(in.Items))}
	for _, item := range in.Items {
		out.Results = append(out.Results, spatial.Calculate(item))
	}
	return out, nil
}

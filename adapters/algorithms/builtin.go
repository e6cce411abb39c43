package algorithms

import (
	"context"
	"fmt"

	"mlprep/domain/algorithm"
	"mlprep/domain/core"
	"mlprep/domain/preprocessing"
	"mlprep/ports"
)

// Hook is a named algorithm slot without a training routine.
// Fit checks the dataset and the context, then reports ErrAlgorithmNotImplemented.
type Hook struct {
	name string
}

// NewHook creates an algorithm slot with the given name
func NewHook(name string) *Hook {
	return &Hook{name: name}
}

// Name returns the registry name
func (h *Hook) Name() string { return h.name }

// Fit always fails: no training routine is attached to a hook
func (h *Hook) Fit(ctx context.Context, data *preprocessing.ProcessedDataset) (ports.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if data == nil || data.RowCount() == 0 {
		return nil, fmt.Errorf("%s: no rows to fit", h.name)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrAlgorithmNotImplemented, h.name)
}

// Builtins returns one hook per built-in algorithm name
func Builtins() []ports.Algorithm {
	out := make([]ports.Algorithm, 0, len(algorithm.DefaultNames))
	for _, name := range algorithm.DefaultNames {
		out = append(out, NewHook(name))
	}
	return out
}

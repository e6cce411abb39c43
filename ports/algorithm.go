package ports

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"mlprep/domain/preprocessing"
)

// Algorithm learns from a processed dataset
type Algorithm interface {
	Name() string
	Fit(ctx context.Context, data *preprocessing.ProcessedDataset) (Model, error)
}

// Model is a fitted algorithm. features is rows x feature columns, the
// label column removed. Predict returns one value per row: a class index
// for classification problems, a raw value for regression.
type Model interface {
	Predict(ctx context.Context, features mat.Matrix) ([]float64, error)
}

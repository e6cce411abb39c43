package ports

import (
	"mlprep/domain/preprocessing"
)

// PreprocessorPort turns a raw upload into a processed dataset.
// Implementations must be safe for concurrent use.
type PreprocessorPort interface {
	Run(raw preprocessing.RawDataset) (*preprocessing.ProcessedDataset, error)
}

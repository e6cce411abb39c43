package ports

import (
	"context"
	"io"

	"mlprep/domain/preprocessing"
)

// DatasetReader decodes an uploaded file into a raw dataset.
// The filename extension selects the format.
type DatasetReader interface {
	Read(ctx context.Context, r io.Reader, filename string) (preprocessing.RawDataset, error)
}

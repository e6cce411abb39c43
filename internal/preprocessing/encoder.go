package preprocessing

import (
	"fmt"
	"math"

	"mlprep/adapters/datareadiness/coercer"
	"mlprep/domain/core"
	domain "mlprep/domain/preprocessing"
)

// FeatureEncoder turns sanitized string rows into numeric rows
type FeatureEncoder struct {
	coercer *coercer.TypeCoercer
}

// NewFeatureEncoder creates an encoder using the given coercer
func NewFeatureEncoder(c *coercer.TypeCoercer) *FeatureEncoder {
	return &FeatureEncoder{coercer: c}
}

// Encode writes one numeric row per input row. Each non-label cell is encoded
// with the profile of its own column: numeric cells are z-scored (0 when the
// column has no spread) and categorical cells become index/len(unique).
// The label cell is replaced by classes[row].
func (e *FeatureEncoder) Encode(header []string, rows [][]string, profile *domain.DatasetProfile, label domain.LabelInfo, classes []int) ([][]float64, error) {
	if len(classes) != len(rows) {
		return nil, fmt.Errorf("%w: %d class indices for %d rows", core.ErrLabelResolution, len(classes), len(rows))
	}

	columns := make([]domain.ColumnProfile, len(header))
	for c, name := range header {
		if c == label.ColumnIndex {
			continue
		}
		col, ok := profile.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownColumn, name)
		}
		columns[c] = col
	}

	encoded := make([][]float64, len(rows))
	for r, row := range rows {
		if len(row) != len(header) {
			return nil, core.NewMalformedRowError(r+1, len(row), len(header))
		}
		out := make([]float64, len(header))
		for c, cell := range row {
			if c == label.ColumnIndex {
				out[c] = float64(classes[r])
				continue
			}
			v, err := e.encodeCell(columns[c], cell)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r+1, err)
			}
			out[c] = v
		}
		encoded[r] = out
	}

	return encoded, nil
}

func (e *FeatureEncoder) encodeCell(col domain.ColumnProfile, cell string) (float64, error) {
	if col.IsNumeric() {
		v, ok := e.coercer.ParseNumeric(cell)
		if !ok || col.Stats == nil {
			return 0, fmt.Errorf("%w: %q in numeric column %q", core.ErrValueNotProfiled, cell, col.Name)
		}
		z := zScore(v, *col.Stats)
		if !isFinite(z) {
			return 0, fmt.Errorf("%w: %q in numeric column %q encodes to %v", core.ErrNonFiniteValue, cell, col.Name, z)
		}
		return z, nil
	}

	idx := col.ValueIndex(cell)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q in categorical column %q", core.ErrValueNotProfiled, cell, col.Name)
	}
	return float64(idx) / float64(len(col.UniqueValues)), nil
}

func zScore(v float64, s domain.ColumnStats) float64 {
	if s.Std == 0 {
		return 0
	}
	d := v - s.Mean
	if math.IsInf(d, 0) {
		// both operands are finite, so the halved difference is too
		return (v/2 - s.Mean/2) / s.Std * 2
	}
	return d / s.Std
}

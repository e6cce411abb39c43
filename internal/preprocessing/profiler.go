package preprocessing

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"mlprep/adapters/datareadiness/coercer"
	"mlprep/domain/core"
	domain "mlprep/domain/preprocessing"
)

// ColumnProfiler classifies columns and computes their statistics
type ColumnProfiler struct {
	coercer *coercer.TypeCoercer
}

// NewColumnProfiler creates a profiler using the given coercer
func NewColumnProfiler(c *coercer.TypeCoercer) *ColumnProfiler {
	return &ColumnProfiler{coercer: c}
}

// Profile builds a profile for every header column over rows.
// Rows must already match the header length. A column with no values is
// categorical with an empty unique-value list.
func (p *ColumnProfiler) Profile(header []string, rows [][]string) (*domain.DatasetProfile, error) {
	if err := checkUniqueHeader(header); err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != len(header) {
			return nil, core.NewMalformedRowError(r+1, len(row), len(header))
		}
	}

	columns := make([]domain.ColumnProfile, len(header))
	for i, name := range header {
		col, err := p.profileColumn(name, i, rows)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}

	return domain.NewDatasetProfile(columns), nil
}

func (p *ColumnProfiler) profileColumn(name string, index int, rows [][]string) (domain.ColumnProfile, error) {
	values := make([]string, len(rows))
	for r, row := range rows {
		values[r] = row[index]
	}

	col := domain.ColumnProfile{
		Name:         name,
		Index:        index,
		Kind:         domain.KindCategorical,
		UniqueValues: uniqueInOrder(values),
	}

	if len(values) == 0 || !p.coercer.AnalyzeValues(col.UniqueValues).AllNumeric {
		return col, nil
	}

	parsed := make([]float64, len(values))
	for r, v := range values {
		parsed[r], _ = p.coercer.ParseNumeric(v)
	}

	columnStats, err := computeStats(parsed)
	if err != nil {
		return domain.ColumnProfile{}, fmt.Errorf("column %q: %w", name, err)
	}

	col.Kind = domain.KindNumeric
	col.Stats = &columnStats
	return col, nil
}

// Columns whose largest magnitude falls outside this range are divided by it
// before summing, so sums of values and squares neither overflow nor underflow.
const (
	minDirectMagnitude = 1e-150
	maxDirectMagnitude = 1e150
)

// computeStats returns the mean and population standard deviation.
// Columns holding a single distinct number get exactly that mean and std 0,
// so rounding in the mean can never produce a tiny non-zero spread.
func computeStats(data []float64) (domain.ColumnStats, error) {
	min, err := stats.Min(data)
	if err != nil {
		return domain.ColumnStats{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return domain.ColumnStats{}, err
	}
	if min == max {
		return domain.ColumnStats{Mean: min, Std: 0}, nil
	}

	scale := math.Max(math.Abs(min), math.Abs(max))
	scaled := data
	if scale >= minDirectMagnitude && scale <= maxDirectMagnitude {
		scale = 1
	} else {
		scaled = make([]float64, len(data))
		for i, v := range data {
			scaled[i] = v / scale
		}
	}

	mean, err := stats.Mean(scaled)
	if err != nil {
		return domain.ColumnStats{}, err
	}
	std, err := stats.StandardDeviationPopulation(scaled)
	if err != nil {
		return domain.ColumnStats{}, err
	}

	s := domain.ColumnStats{Mean: mean * scale, Std: std * scale}
	if !isFinite(s.Mean) || !isFinite(s.Std) {
		return domain.ColumnStats{}, fmt.Errorf("%w: mean %v, std %v", core.ErrNonFiniteValue, s.Mean, s.Std)
	}
	return s, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// uniqueInOrder returns the distinct values in first-seen order
func uniqueInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

func checkUniqueHeader(header []string) error {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if first, ok := positions[name]; ok {
			return core.NewDuplicateColumnError(name, first, i)
		}
		positions[name] = i
	}
	return nil
}

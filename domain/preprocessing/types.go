// Package preprocessing holds the data model shared by the preprocessing
// pipeline and the algorithm layer.
package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"mlprep/domain/core"
)

// RawDataset is an uploaded table. Row 0 is the header, every other row is
// a sequence of raw cell values. Null cells are represented as "".
type RawDataset [][]string

// Header returns row 0, or nil for an empty dataset
func (d RawDataset) Header() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0]
}

// DataRows returns every row after the header
func (d RawDataset) DataRows() [][]string {
	if len(d) < 2 {
		return nil
	}
	return d[1:]
}

// ColumnKind classifies a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// ClassificationType describes the learning problem implied by the label cardinality
type ClassificationType string

const (
	ClassificationBinary     ClassificationType = "binary"
	ClassificationMulticlass ClassificationType = "multiclass"
	ClassificationRegression ClassificationType = "regression"
)

// DefaultMulticlassMaxLabels is the largest label count still treated as multiclass
const DefaultMulticlassMaxLabels = 10

// DefaultLabelColumnNames are matched case-insensitively against the header
var DefaultLabelColumnNames = []string{"label", "target", "class"}

// ClassifyLabelCount maps a distinct-label count to a classification type.
// 2 is binary, 3..maxMulticlass is multiclass, anything else is regression.
func ClassifyLabelCount(count, maxMulticlass int) ClassificationType {
	switch {
	case count == 2:
		return ClassificationBinary
	case count > 2 && count <= maxMulticlass:
		return ClassificationMulticlass
	default:
		return ClassificationRegression
	}
}

// ColumnStats holds the population mean and standard deviation of a numeric column
type ColumnStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// ColumnProfile describes one column as seen by the profiler
type ColumnProfile struct {
	Name         string       `json:"name"`
	Index        int          `json:"index"`
	Kind         ColumnKind   `json:"kind"`
	UniqueValues []string     `json:"unique_values"`
	Stats        *ColumnStats `json:"stats,omitempty"`
}

// IsNumeric reports whether the column was classified numeric
func (p ColumnProfile) IsNumeric() bool {
	return p.Kind == KindNumeric
}

// ValueIndex returns the first-seen position of value, or -1
func (p ColumnProfile) ValueIndex(value string) int {
	for i, v := range p.UniqueValues {
		if v == value {
			return i
		}
	}
	return -1
}

// DatasetProfile is the per-column profile of a dataset, in header order
type DatasetProfile struct {
	Columns []ColumnProfile `json:"columns"`
	byName  map[string]int
}

// NewDatasetProfile indexes columns by name. Names are assumed unique.
func NewDatasetProfile(columns []ColumnProfile) *DatasetProfile {
	byName := make(map[string]int, len(columns))
	for i, col := range columns {
		byName[col.Name] = i
	}
	return &DatasetProfile{Columns: columns, byName: byName}
}

// Column looks up a column profile by name
func (p *DatasetProfile) Column(name string) (ColumnProfile, bool) {
	if p.byName == nil {
		for _, col := range p.Columns {
			if col.Name == name {
				return col, true
			}
		}
		return ColumnProfile{}, false
	}
	i, ok := p.byName[name]
	if !ok {
		return ColumnProfile{}, false
	}
	return p.Columns[i], true
}

// NumericColumns returns the names of numeric columns in header order
func (p *DatasetProfile) NumericColumns() []string {
	return p.namesOfKind(KindNumeric)
}

// CategoricalColumns returns the names of categorical columns in header order
func (p *DatasetProfile) CategoricalColumns() []string {
	return p.namesOfKind(KindCategorical)
}

func (p *DatasetProfile) namesOfKind(kind ColumnKind) []string {
	names := make([]string, 0, len(p.Columns))
	for _, col := range p.Columns {
		if col.Kind == kind {
			names = append(names, col.Name)
		}
	}
	return names
}

// LabelInfo describes the prediction target
type LabelInfo struct {
	ColumnName         string             `json:"column_name"`
	ColumnIndex        int                `json:"column_index"`
	UniqueLabels       []string           `json:"unique_labels"`
	ClassificationType ClassificationType `json:"classification_type"`
}

// SanitizeReport counts what row sanitization removed
type SanitizeReport struct {
	InputRows         int `json:"input_rows"`
	MalformedDropped  int `json:"malformed_dropped"`
	NullDropped       int `json:"null_dropped"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	OutputRows        int `json:"output_rows"`
}

// ProcessedDataset is the numeric table handed to the algorithm layer.
// Rows keep the header's column order; the label cell holds the class index.
type ProcessedDataset struct {
	Header      []string        `json:"header"`
	Rows        [][]float64     `json:"rows"`
	Label       LabelInfo       `json:"label"`
	Profile     *DatasetProfile `json:"profile"`
	Sanitize    SanitizeReport  `json:"sanitize"`
	Fingerprint core.Hash       `json:"fingerprint"`
}

// RowCount returns the number of processed rows
func (d *ProcessedDataset) RowCount() int {
	return len(d.Rows)
}

// FeatureNames returns the header without the label column
func (d *ProcessedDataset) FeatureNames() []string {
	names := make([]string, 0, len(d.Header))
	for i, name := range d.Header {
		if i != d.Label.ColumnIndex {
			names = append(names, name)
		}
	}
	return names
}

// Features returns a copy of the rows with the label column removed
func (d *ProcessedDataset) Features() [][]float64 {
	features := make([][]float64, len(d.Rows))
	for r, row := range d.Rows {
		out := make([]float64, 0, len(row)-1)
		for c, v := range row {
			if c != d.Label.ColumnIndex {
				out = append(out, v)
			}
		}
		features[r] = out
	}
	return features
}

// Labels returns the class index of every row
func (d *ProcessedDataset) Labels() []int {
	labels := make([]int, len(d.Rows))
	for r, row := range d.Rows {
		labels[r] = int(row[d.Label.ColumnIndex])
	}
	return labels
}

// FeatureMatrix returns the features as a dense rows x features matrix.
// It returns nil when there are no rows or no feature columns.
func (d *ProcessedDataset) FeatureMatrix() *mat.Dense {
	features := d.Features()
	if len(features) == 0 || len(features[0]) == 0 {
		return nil
	}
	cols := len(features[0])
	data := make([]float64, 0, len(features)*cols)
	for _, row := range features {
		data = append(data, row...)
	}
	return mat.NewDense(len(features), cols, data)
}

// LabelVector returns the class indices as a column vector, or nil when empty
func (d *ProcessedDataset) LabelVector() *mat.VecDense {
	if len(d.Rows) == 0 {
		return nil
	}
	labels := make([]float64, len(d.Rows))
	for r, row := range d.Rows {
		labels[r] = row[d.Label.ColumnIndex]
	}
	return mat.NewVecDense(len(labels), labels)
}

package preprocessing

import (
	"fmt"
	"strings"

	"mlprep/domain/core"
	domain "mlprep/domain/preprocessing"
)

// LabelResolver finds the target column and encodes its values as class indices
type LabelResolver struct {
	reserved      map[string]struct{}
	maxMulticlass int
}

// NewLabelResolver creates a resolver. Reserved names are compared
// case-insensitively; an empty list falls back to label/target/class.
func NewLabelResolver(reservedNames []string, maxMulticlass int) *LabelResolver {
	if len(reservedNames) == 0 {
		reservedNames = domain.DefaultLabelColumnNames
	}
	if maxMulticlass <= 2 {
		maxMulticlass = domain.DefaultMulticlassMaxLabels
	}
	reserved := make(map[string]struct{}, len(reservedNames))
	for _, name := range reservedNames {
		reserved[strings.ToLower(name)] = struct{}{}
	}
	return &LabelResolver{reserved: reserved, maxMulticlass: maxMulticlass}
}

// ResolveColumn returns the name and index of the label column: the first
// header name in the reserved set, otherwise the last column.
func (r *LabelResolver) ResolveColumn(header []string) (string, int, error) {
	if len(header) == 0 {
		return "", -1, fmt.Errorf("%w: header is empty", core.ErrLabelResolution)
	}
	for i, name := range header {
		if _, ok := r.reserved[strings.ToLower(name)]; ok {
			return name, i, nil
		}
	}
	last := len(header) - 1
	return header[last], last, nil
}

// Resolve locates the label column, collects its distinct values in first-seen
// order and returns each row's class index alongside the label info.
func (r *LabelResolver) Resolve(header []string, rows [][]string) (domain.LabelInfo, []int, error) {
	name, index, err := r.ResolveColumn(header)
	if err != nil {
		return domain.LabelInfo{}, nil, err
	}

	positions := make(map[string]int)
	uniqueLabels := make([]string, 0)
	classes := make([]int, len(rows))
	for i, row := range rows {
		if index >= len(row) {
			return domain.LabelInfo{}, nil, fmt.Errorf("%w: row %d has no cell at index %d", core.ErrLabelResolution, i+1, index)
		}
		value := row[index]
		pos, ok := positions[value]
		if !ok {
			pos = len(uniqueLabels)
			positions[value] = pos
			uniqueLabels = append(uniqueLabels, value)
		}
		classes[i] = pos
	}

	info := domain.LabelInfo{
		ColumnName:         name,
		ColumnIndex:        index,
		UniqueLabels:       uniqueLabels,
		ClassificationType: domain.ClassifyLabelCount(len(uniqueLabels), r.maxMulticlass),
	}
	return info, classes, nil
}

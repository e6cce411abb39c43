package preprocessing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlprep/domain/core"
	domain "mlprep/domain/preprocessing"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name      string
		header    []string
		wantName  string
		wantIndex int
	}{
		{"exact reserved name", []string{"age", "income", "class"}, "class", 2},
		{"last column fallback", []string{"age", "income", "outcome"}, "outcome", 2},
		{"case insensitive", []string{"Target", "x"}, "Target", 0},
		{"first match wins", []string{"x", "LABEL", "class"}, "LABEL", 1},
		{"substring does not match", []string{"labels", "classy", "y"}, "y", 2},
		{"single column", []string{"only"}, "only", 0},
	}

	resolver := NewLabelResolver(nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, index, err := resolver.ResolveColumn(tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantIndex, index)
		})
	}
}

func TestResolveColumnEmptyHeader(t *testing.T) {
	_, _, err := NewLabelResolver(nil, 0).ResolveColumn(nil)
	assert.True(t, errors.Is(err, core.ErrLabelResolution))
}

func TestResolveColumnCustomNames(t *testing.T) {
	name, index, err := NewLabelResolver([]string{"Outcome"}, 0).ResolveColumn([]string{"outcome", "label"})
	require.NoError(t, err)
	assert.Equal(t, "outcome", name)
	assert.Equal(t, 0, index)
}

func TestResolveEncodesFirstSeenOrder(t *testing.T) {
	header := []string{"x", "label"}
	rows := [][]string{{"1", "yes"}, {"2", "no"}, {"3", "yes"}, {"4", "maybe"}}

	info, classes, err := NewLabelResolver(nil, 0).Resolve(header, rows)
	require.NoError(t, err)

	assert.Equal(t, "label", info.ColumnName)
	assert.Equal(t, 1, info.ColumnIndex)
	assert.Equal(t, []string{"yes", "no", "maybe"}, info.UniqueLabels)
	assert.Equal(t, []int{0, 1, 0, 2}, classes)
	assert.Equal(t, domain.ClassificationMulticlass, info.ClassificationType)
	// input rows are left untouched
	assert.Equal(t, "yes", rows[0][1])
}

func TestResolveClassificationType(t *testing.T) {
	tests := []struct {
		distinct int
		want     domain.ClassificationType
	}{
		{1, domain.ClassificationRegression},
		{2, domain.ClassificationBinary},
		{5, domain.ClassificationMulticlass},
		{10, domain.ClassificationMulticlass},
		{11, domain.ClassificationRegression},
		{37, domain.ClassificationRegression},
	}

	resolver := NewLabelResolver(nil, domain.DefaultMulticlassMaxLabels)
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d labels", tt.distinct), func(t *testing.T) {
			rows := make([][]string, tt.distinct)
			for i := range rows {
				rows[i] = []string{fmt.Sprintf("v%d", i)}
			}

			info, _, err := resolver.Resolve([]string{"target"}, rows)
			require.NoError(t, err)
			assert.Len(t, info.UniqueLabels, tt.distinct)
			assert.Equal(t, tt.want, info.ClassificationType)
		})
	}
}

func TestResolveCustomMulticlassLimit(t *testing.T) {
	rows := [][]string{{"a"}, {"b"}, {"c"}, {"d"}}

	info, _, err := NewLabelResolver(nil, 3).Resolve([]string{"label"}, rows)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationRegression, info.ClassificationType)
}

package preprocessing

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlprep/domain/core"
	domain "mlprep/domain/preprocessing"
	"mlprep/internal"
	"mlprep/internal/errors"
	"mlprep/internal/testkit"
)

func sampleDataset() domain.RawDataset {
	return domain.RawDataset{
		{"x", "y", "label"},
		{"1", "A", "yes"},
		{"2", "B", "no"},
		{"3", "A", "yes"},
	}
}

func TestRunEndToEnd(t *testing.T) {
	out, err := Run(sampleDataset())
	require.NoError(t, err)

	x, ok := out.Profile.Column("x")
	require.True(t, ok)
	assert.Equal(t, domain.KindNumeric, x.Kind)
	assert.InDelta(t, 2.0, x.Stats.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0), x.Stats.Std, 1e-12)

	y, _ := out.Profile.Column("y")
	assert.Equal(t, domain.KindCategorical, y.Kind)
	assert.Equal(t, []string{"A", "B"}, y.UniqueValues)

	assert.Equal(t, "label", out.Label.ColumnName)
	assert.Equal(t, []string{"yes", "no"}, out.Label.UniqueLabels)
	assert.Equal(t, domain.ClassificationBinary, out.Label.ClassificationType)
	assert.Equal(t, []int{0, 1, 0}, out.Labels())

	assert.Equal(t, 3, out.RowCount())
	assert.Equal(t, []string{"x", "y"}, out.FeatureNames())
	assert.False(t, out.Fingerprint.IsEmpty())
	assert.Equal(t, domain.SanitizeReport{InputRows: 3, OutputRows: 3}, out.Sanitize)
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(sampleDataset())
	require.NoError(t, err)
	second, err := Run(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Label, second.Label)
	assert.True(t, first.Fingerprint.Equals(second.Fingerprint))
}

func TestRunConcurrentCallsAgree(t *testing.T) {
	p := New(DefaultOptions(), nil)
	want, err := p.Run(sampleDataset())
	require.NoError(t, err)

	var wg sync.WaitGroup
	fingerprints := make([]core.Hash, 8)
	for i := range fingerprints {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := p.Run(sampleDataset())
			if err == nil {
				fingerprints[i] = out.Fingerprint
			}
		}(i)
	}
	wg.Wait()

	for _, fp := range fingerprints {
		assert.Equal(t, want.Fingerprint, fp)
	}
}

func TestRunFingerprintChangesWithInput(t *testing.T) {
	first, err := Run(sampleDataset())
	require.NoError(t, err)

	changed := sampleDataset()
	changed[1][0] = "10"
	second, err := Run(changed)
	require.NoError(t, err)

	assert.False(t, first.Fingerprint.Equals(second.Fingerprint))
}

func TestRunDropsDuplicatesAndNulls(t *testing.T) {
	raw := domain.RawDataset{
		{"x", "label"},
		{"1", "a"},
		{"", "b"},
		{"2", "b"},
		{"1", "a"},
	}

	out, err := Run(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, out.RowCount())
	assert.Equal(t, []int{0, 1}, out.Labels())
	assert.Equal(t, domain.SanitizeReport{InputRows: 4, NullDropped: 1, DuplicatesDropped: 1, OutputRows: 2}, out.Sanitize)

	// the dropped row never reaches the profile
	x, _ := out.Profile.Column("x")
	assert.Equal(t, domain.KindNumeric, x.Kind)
	assert.Equal(t, []string{"1", "2"}, x.UniqueValues)
}

func TestRunConstantColumnEncodesToZero(t *testing.T) {
	raw := domain.RawDataset{
		{"k", "label"},
		{"7", "a"},
		{"7", "b"},
	}

	out, err := Run(raw)
	require.NoError(t, err)
	for _, row := range out.Features() {
		assert.Equal(t, []float64{0}, row)
	}
}

func TestRunMalformedRowPolicy(t *testing.T) {
	raw := domain.RawDataset{
		{"x", "label"},
		{"1", "a"},
		{"2"},
		{"3", "b", "extra"},
		{"4", "b"},
	}

	t.Run("drop", func(t *testing.T) {
		var buf bytes.Buffer
		p := New(DefaultOptions(), internal.NewLoggerWithWriter(internal.LogLevelWarn, &buf))

		out, err := p.Run(raw)
		require.NoError(t, err)
		assert.Equal(t, 2, out.RowCount())
		assert.Equal(t, 2, out.Sanitize.MalformedDropped)
		assert.Equal(t, 4, out.Sanitize.InputRows)
		assert.Contains(t, buf.String(), "dropping")
	})

	t.Run("strict", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MalformedRowPolicy = RejectMalformedRows

		_, err := New(opts, nil).Run(raw)
		require.Error(t, err)
		assert.Equal(t, errors.CodeMalformedRow, errors.GetCode(err))
		assert.Equal(t, errors.StageValidate, errors.GetStage(err))
		assert.ErrorIs(t, err, core.ErrMalformedRow)
	})
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       domain.RawDataset
		wantCode  string
		wantStage string
		wantErr   error
	}{
		{"nil dataset", nil, errors.CodeEmptyInput, errors.StageValidate, core.ErrEmptyInput},
		{"header only", domain.RawDataset{{"x", "label"}}, errors.CodeEmptyInput, errors.StageValidate, core.ErrEmptyInput},
		{"empty header", domain.RawDataset{{}, {}}, errors.CodeLabelResolution, errors.StageLabel, core.ErrLabelResolution},
		{
			"duplicate column",
			domain.RawDataset{{"x", "x", "label"}, {"1", "2", "a"}},
			errors.CodeDuplicateColumn, errors.StageValidate, core.ErrDuplicateColumn,
		},
		{
			"all rows incomplete",
			domain.RawDataset{{"x", "label"}, {"", "a"}, {"1", ""}},
			errors.CodeEmptyDataset, errors.StageSanitize, core.ErrEmptyDataset,
		},
		{
			"all rows malformed",
			domain.RawDataset{{"x", "label"}, {"1"}},
			errors.CodeEmptyDataset, errors.StageSanitize, core.ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Run(tt.raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, tt.wantStage, errors.GetStage(err))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunLabelSelection(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   string
	}{
		{"reserved name", []string{"age", "income", "class"}, "class"},
		{"last column", []string{"age", "income", "outcome"}, "outcome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := domain.RawDataset{tt.header, {"30", "100", "a"}, {"40", "200", "b"}}
			out, err := Run(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Label.ColumnName)
		})
	}
}

func TestParseMalformedRowPolicy(t *testing.T) {
	policy, err := ParseMalformedRowPolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, RejectMalformedRows, policy)

	policy, err = ParseMalformedRowPolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, DropMalformedRows, policy)

	_, err = ParseMalformedRowPolicy("repair")
	assert.Error(t, err)
}

func TestRunHugeNumericColumn(t *testing.T) {
	out, err := Run(domain.RawDataset{
		{"x", "label"},
		{"1e308", "a"},
		{"1.5e308", "b"},
		{"-1e308", "a"},
	})
	require.NoError(t, err)

	x, _ := out.Profile.Column("x")
	assert.InEpsilon(t, 0.5e308, x.Stats.Mean, 1e-9)

	// scaled column is {2/3, 1, -2/3}: mean 1/3, std sqrt(14/27)
	std := math.Sqrt(14.0 / 27.0)
	want := []float64{(1.0 / 3.0) / std, (2.0 / 3.0) / std, -1.0 / std}
	for r, row := range out.Rows {
		require.False(t, math.IsNaN(row[0]) || math.IsInf(row[0], 0), "row %d", r)
		assert.InDelta(t, want[r], row[0], 1e-9)
	}
	assert.Equal(t, []int{0, 1, 0}, out.Labels())
}

func TestRunSyntheticShoppingData(t *testing.T) {
	config := testkit.DefaultShoppingConfig()
	config.CustomerCount = 300
	config.NullRate = 0.05
	config.DuplicateRate = 0.05
	config.MalformedRate = 0.02
	raw, stats := testkit.NewShoppingDataGenerator(config).Generate()

	out, err := Run(raw)
	require.NoError(t, err)

	report := out.Sanitize
	assert.Equal(t, stats.Customers+stats.Duplicates, report.InputRows)
	assert.GreaterOrEqual(t, report.MalformedDropped, stats.Malformed)
	assert.Equal(t, report.InputRows,
		report.MalformedDropped+report.NullDropped+report.DuplicatesDropped+report.OutputRows)
	assert.Equal(t, report.OutputRows, out.RowCount())

	assert.Equal(t, "returned", out.Label.ColumnName)
	assert.Equal(t, domain.ClassificationBinary, out.Label.ClassificationType)
	assert.Equal(t, []string{"age", "orders", "basket_value"}, out.Profile.NumericColumns())
	assert.Equal(t, []string{"region", "segment", "returned"}, out.Profile.CategoricalColumns())

	for r, row := range out.Rows {
		for c, v := range row {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "row %d col %d", r, c)
		}
	}
	for _, label := range out.Labels() {
		assert.Contains(t, []int{0, 1}, label)
	}
}

func TestRunClassificationByCardinality(t *testing.T) {
	tests := []struct {
		classes int
		want    domain.ClassificationType
	}{
		{2, domain.ClassificationBinary},
		{3, domain.ClassificationMulticlass},
		{10, domain.ClassificationMulticlass},
		{11, domain.ClassificationRegression},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d classes", tt.classes), func(t *testing.T) {
			out, err := Run(testkit.Matrix(40, 3, tt.classes, int64(tt.classes)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Label.ClassificationType)
			assert.Len(t, out.Label.UniqueLabels, tt.classes)
			assert.Equal(t, 40, out.RowCount())
		})
	}
}

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlprep/domain/algorithm"
	"mlprep/domain/preprocessing"
	pipeline "mlprep/internal/preprocessing"
)

func processed(t *testing.T) *preprocessing.ProcessedDataset {
	t.Helper()
	out, err := pipeline.Run(preprocessing.RawDataset{
		{"x", "y", "label"},
		{"1", "A", "yes"},
		{"2", "B", "no"},
		{"3", "A", "yes"},
		{"3", "A", "yes"},
	})
	require.NoError(t, err)
	return out
}

func TestMarkdownDataset(t *testing.T) {
	md := Markdown(Input{Source: "upload.csv", Dataset: processed(t)})

	assert.Contains(t, md, "Source: `upload.csv`")
	assert.Contains(t, md, "- Rows: 3 (of 4 uploaded)")
	assert.Contains(t, md, "0 malformed, 0 incomplete, 1 duplicate")
	assert.Contains(t, md, "- Label: `label` (binary, 2 classes)")
	assert.Contains(t, md, "| x | numeric | 3 | 2 | 0.8165 |")
	assert.Contains(t, md, "| y | categorical | 2 |  |  |")
	assert.NotContains(t, md, "## Algorithms")
}

func TestMarkdownAlgorithms(t *testing.T) {
	acc := 0.5
	md := Markdown(Input{
		Dataset:  processed(t),
		Results:  []algorithm.Result{{AlgorithmName: "knn", Scores: algorithm.Scores{Accuracy: &acc}, DurationMs: 4}},
		Failures: []algorithm.Failure{{AlgorithmName: "svm", Error: "a|b"}},
	})

	assert.Contains(t, md, "| knn | ok | 0.5000 |  |  | 4ms |")
	assert.Contains(t, md, "failed: a\\|b")
}

func TestMarkdownWithoutDataset(t *testing.T) {
	assert.Contains(t, Markdown(Input{}), "No dataset.")
}

func TestHTML(t *testing.T) {
	page := string(HTML("Run", "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))

	assert.Contains(t, page, "<title>Run</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "Title</h1>")
}

func TestPlaceholderHTML(t *testing.T) {
	page := string(PlaceholderHTML())
	assert.Contains(t, page, "Machine learning report")
	assert.Contains(t, page, "<code>POST /machine-learning/upload</code>")
}

// Package report renders preprocessing runs as markdown and HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"mlprep/domain/algorithm"
	"mlprep/domain/preprocessing"
)

// Placeholder is served by the download-report endpoint. It does not depend
// on any run.
const Placeholder = `# Machine learning report

Reports are not generated yet. Upload a dataset to
` + "`POST /machine-learning/upload`" + ` to see preprocessing details and
algorithm results in the response.
`

// Input is everything a run report can show. Results and Failures may be empty.
type Input struct {
	Source   string
	Dataset  *preprocessing.ProcessedDataset
	Results  []algorithm.Result
	Failures []algorithm.Failure
}

// Markdown renders a summary of one run
func Markdown(in Input) string {
	var b strings.Builder
	b.WriteString("# Preprocessing report\n\n")
	if in.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", in.Source)
	}

	d := in.Dataset
	if d == nil {
		b.WriteString("No dataset.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- Rows: %d (of %d uploaded)\n", d.Sanitize.OutputRows, d.Sanitize.InputRows)
	fmt.Fprintf(&b, "- Dropped: %d malformed, %d incomplete, %d duplicate\n",
		d.Sanitize.MalformedDropped, d.Sanitize.NullDropped, d.Sanitize.DuplicatesDropped)
	fmt.Fprintf(&b, "- Label: `%s` (%s, %d classes)\n", d.Label.ColumnName, d.Label.ClassificationType, len(d.Label.UniqueLabels))
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n\n", d.Fingerprint.Short())

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Kind | Unique | Mean | Std |\n")
	b.WriteString("|---|---|---|---|---|\n")
	if d.Profile != nil {
		for _, col := range d.Profile.Columns {
			mean, std := "", ""
			if col.Stats != nil {
				mean = fmt.Sprintf("%.4g", col.Stats.Mean)
				std = fmt.Sprintf("%.4g", col.Stats.Std)
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n", escapeCell(col.Name), col.Kind, len(col.UniqueValues), mean, std)
		}
	}
	b.WriteString("\n")

	if len(in.Results) == 0 && len(in.Failures) == 0 {
		return b.String()
	}

	b.WriteString("## Algorithms\n\n")
	b.WriteString("| Algorithm | Status | Accuracy | F1 | MSE | Duration |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range in.Results {
		fmt.Fprintf(&b, "| %s | ok | %s | %s | %s | %dms |\n",
			r.AlgorithmName, formatScore(r.Scores.Accuracy), formatScore(r.Scores.F1Score),
			formatScore(r.Scores.MeanSquaredError), r.DurationMs)
	}
	for _, f := range in.Failures {
		fmt.Fprintf(&b, "| %s | failed: %s |  |  |  | %dms |\n", f.AlgorithmName, escapeCell(f.Error), f.DurationMs)
	}
	return b.String()
}

// HTML renders markdown as a complete HTML page
func HTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// PlaceholderHTML renders Placeholder
func PlaceholderHTML() []byte {
	return HTML("Machine learning report", Placeholder)
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

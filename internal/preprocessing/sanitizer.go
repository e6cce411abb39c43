package preprocessing

import (
	"strconv"
	"strings"

	"mlprep/adapters/datareadiness/coercer"
	domain "mlprep/domain/preprocessing"
)

// RowSanitizer drops incomplete and duplicate rows
type RowSanitizer struct {
	coercer *coercer.TypeCoercer
}

// NewRowSanitizer creates a sanitizer using the given coercer's notion of missing
func NewRowSanitizer(c *coercer.TypeCoercer) *RowSanitizer {
	return &RowSanitizer{coercer: c}
}

// Sanitize removes rows with any missing cell, then removes exact duplicates
// keeping the first occurrence. Survivors keep their relative order.
func (s *RowSanitizer) Sanitize(rows [][]string) ([][]string, domain.SanitizeReport) {
	report := domain.SanitizeReport{InputRows: len(rows)}

	complete := make([][]string, 0, len(rows))
	for _, row := range rows {
		if s.hasMissing(row) {
			report.NullDropped++
			continue
		}
		complete = append(complete, row)
	}

	seen := make(map[string]struct{}, len(complete))
	cleaned := make([][]string, 0, len(complete))
	for _, row := range complete {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			report.DuplicatesDropped++
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, row)
	}

	report.OutputRows = len(cleaned)
	return cleaned, report
}

func (s *RowSanitizer) hasMissing(row []string) bool {
	for _, cell := range row {
		if s.coercer.IsMissing(cell) {
			return true
		}
	}
	return false
}

// rowKey encodes a row so that two keys match only when every cell matches.
// Quoting keeps cells that contain the separator from colliding.
func rowKey(row []string) string {
	var b strings.Builder
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(cell))
	}
	return b.String()
}

package coercer

import (
	"math"
	"strconv"
	"strings"
)

// TypeCoercer decides how raw CSV cells are read as numbers
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	TrimSpace bool `json:"trim_space"` // Whether surrounding whitespace is ignored when parsing
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		TrimSpace: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// IsMissing reports whether a cell counts as null/empty.
// JSON null cells arrive as "" so both cases collapse into one check.
func (c *TypeCoercer) IsMissing(raw string) bool {
	return raw == ""
}

// ParseNumeric parses a finite float. Empty strings, NaN and ±Inf are rejected,
// as are overflowing literals.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	if c.IsMissing(raw) {
		return 0, false
	}

	cleanVal := raw
	if c.config.TrimSpace {
		cleanVal = strings.TrimSpace(cleanVal)
	}
	if cleanVal == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// TypeAnalysis summarises how a set of values coerces
type TypeAnalysis struct {
	TotalCount   int  `json:"total_count"`
	MissingCount int  `json:"missing_count"`
	NumericCount int  `json:"numeric_count"`
	AllNumeric   bool `json:"all_numeric"`
}

// AnalyzeValues counts missing and numeric values. AllNumeric is true only
// when the set is non-empty and every value parses.
func (c *TypeCoercer) AnalyzeValues(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, val := range values {
		if c.IsMissing(val) {
			analysis.MissingCount++
			continue
		}
		if _, ok := c.ParseNumeric(val); ok {
			analysis.NumericCount++
		}
	}

	analysis.AllNumeric = analysis.TotalCount > 0 && analysis.NumericCount == analysis.TotalCount
	return analysis
}

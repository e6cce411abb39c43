package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingDataGenerator_Deterministic(t *testing.T) {
	config := DefaultShoppingConfig()
	config.NullRate = 0.1
	config.DuplicateRate = 0.1

	first, firstStats := NewShoppingDataGenerator(config).Generate()
	second, secondStats := NewShoppingDataGenerator(config).Generate()
	assert.Equal(t, first, second)
	assert.Equal(t, firstStats, secondStats)

	config.Seed = 7
	other, _ := NewShoppingDataGenerator(config).Generate()
	assert.NotEqual(t, first, other)
}

func TestShoppingDataGenerator_Clean(t *testing.T) {
	config := DefaultShoppingConfig()
	config.CustomerCount = 50

	raw, stats := NewShoppingDataGenerator(config).Generate()
	require.Len(t, raw, 51)
	assert.Equal(t, ShoppingHeader, raw.Header())
	assert.Equal(t, ShoppingStats{Customers: 50}, stats)

	for i, row := range raw.DataRows() {
		require.Len(t, row, len(ShoppingHeader), "row %d", i)
		for c, cell := range row {
			assert.NotEmpty(t, cell, "row %d col %d", i, c)
		}
		assert.Contains(t, []string{"yes", "no"}, row[5])
		assert.Contains(t, config.Segments, row[4])
	}
}

func TestShoppingDataGenerator_Noise(t *testing.T) {
	config := DefaultShoppingConfig()
	config.NullRate = 0.2
	config.DuplicateRate = 0.2
	config.MalformedRate = 0.1

	raw, stats := NewShoppingDataGenerator(config).Generate()
	assert.Len(t, raw.DataRows(), stats.Customers+stats.Duplicates)
	assert.Positive(t, stats.Nulls)
	assert.Positive(t, stats.Duplicates)
	assert.Positive(t, stats.Malformed)

	short := 0
	for _, row := range raw.DataRows() {
		if len(row) < len(ShoppingHeader) {
			short++
		}
	}
	assert.GreaterOrEqual(t, short, stats.Malformed)
}

func TestMatrix(t *testing.T) {
	raw := Matrix(6, 3, 4, 1)
	require.Len(t, raw, 7)
	assert.Equal(t, []string{"f0", "f1", "f2", "label"}, raw.Header())
	assert.Equal(t, "c0", raw[1][3])
	assert.Equal(t, "c3", raw[4][3])
	assert.Equal(t, "c1", raw[6][3])
	assert.Equal(t, raw, Matrix(6, 3, 4, 1))
}

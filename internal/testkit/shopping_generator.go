// Package testkit generates deterministic synthetic datasets for tests.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	domain "mlprep/domain/preprocessing"
)

// ShoppingGeneratorConfig configures the shopping dataset generator
type ShoppingGeneratorConfig struct {
	CustomerCount  int      `json:"customer_count"`
	Regions        []string `json:"regions"`
	Segments       []string `json:"segments"`
	NullRate       float64  `json:"null_rate"`
	DuplicateRate  float64  `json:"duplicate_rate"`
	MalformedRate  float64  `json:"malformed_rate"`
	ReturnRateBase float64  `json:"return_rate_base"`
	Seed           int64    `json:"seed"`
}

// DefaultShoppingConfig returns a clean binary-label configuration
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		CustomerCount:  200,
		Regions:        []string{"north", "south", "east", "west"},
		Segments:       []string{"new", "returning", "vip"},
		ReturnRateBase: 0.08,
		Seed:           42,
	}
}

// ShoppingHeader is the column layout of every generated dataset.
// "returned" is not a reserved label name, so the last column is the label.
var ShoppingHeader = []string{"age", "region", "orders", "basket_value", "segment", "returned"}

// ShoppingDataGenerator produces customer tables with a returned yes/no label
type ShoppingDataGenerator struct {
	config ShoppingGeneratorConfig
	rng    *rand.Rand
}

// NewShoppingDataGenerator creates a generator seeded from the config
func NewShoppingDataGenerator(config ShoppingGeneratorConfig) *ShoppingDataGenerator {
	if len(config.Regions) == 0 {
		config.Regions = DefaultShoppingConfig().Regions
	}
	if len(config.Segments) == 0 {
		config.Segments = DefaultShoppingConfig().Segments
	}
	return &ShoppingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// ShoppingStats counts the noise injected into a generated dataset
type ShoppingStats struct {
	Customers  int
	Nulls      int
	Duplicates int
	Malformed  int
}

// Generate returns the header plus one row per customer, with nulls,
// duplicates and malformed rows mixed in at the configured rates.
func (g *ShoppingDataGenerator) Generate() (domain.RawDataset, ShoppingStats) {
	header := append([]string(nil), ShoppingHeader...)
	raw := domain.RawDataset{header}
	var stats ShoppingStats

	for i := 0; i < g.config.CustomerCount; i++ {
		row := g.customerRow()
		stats.Customers++

		switch {
		case g.chance(g.config.MalformedRate):
			row = row[:len(row)-1-g.rng.Intn(len(row)-1)]
			stats.Malformed++
		case g.chance(g.config.NullRate):
			row[g.rng.Intn(len(row))] = ""
			stats.Nulls++
		}
		raw = append(raw, row)

		if len(raw) > 2 && g.chance(g.config.DuplicateRate) {
			prev := raw[1+g.rng.Intn(len(raw)-1)]
			raw = append(raw, append([]string(nil), prev...))
			stats.Duplicates++
		}
	}
	return raw, stats
}

func (g *ShoppingDataGenerator) customerRow() []string {
	age := 18 + g.rng.Intn(60)
	segment := g.config.Segments[g.rng.Intn(len(g.config.Segments))]
	orders := g.poisson(g.segmentOrderRate(segment))
	basket := math.Round(g.lognormal(3.5, 0.6)*100) / 100

	return []string{
		strconv.Itoa(age),
		g.config.Regions[g.rng.Intn(len(g.config.Regions))],
		strconv.Itoa(orders),
		strconv.FormatFloat(basket, 'f', 2, 64),
		segment,
		g.returned(age, basket),
	}
}

func (g *ShoppingDataGenerator) segmentOrderRate(segment string) float64 {
	switch segment {
	case "vip":
		return 6
	case "returning":
		return 3
	default:
		return 1
	}
}

// returned raises the base rate for expensive baskets and young customers
func (g *ShoppingDataGenerator) returned(age int, basket float64) string {
	p := g.config.ReturnRateBase
	if basket > 60 {
		p += 0.15
	}
	if age < 25 {
		p += 0.05
	}
	if g.chance(p) {
		return "yes"
	}
	return "no"
}

func (g *ShoppingDataGenerator) chance(p float64) bool {
	return p > 0 && g.rng.Float64() < p
}

func (g *ShoppingDataGenerator) lognormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*g.rng.NormFloat64())
}

// poisson uses Knuth's method, fine for the small rates used here
func (g *ShoppingDataGenerator) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k, p := 0, 1.0
	for {
		p *= g.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// Matrix builds a rows x cols table of numeric features named f0..fN-1 plus a
// label column cycling through classes labels, for cardinality tests.
func Matrix(rows, cols, classes int, seed int64) domain.RawDataset {
	rng := rand.New(rand.NewSource(seed))
	header := make([]string, 0, cols+1)
	for c := 0; c < cols; c++ {
		header = append(header, fmt.Sprintf("f%d", c))
	}
	header = append(header, "label")

	raw := domain.RawDataset{header}
	for r := 0; r < rows; r++ {
		row := make([]string, 0, cols+1)
		for c := 0; c < cols; c++ {
			row = append(row, strconv.FormatFloat(rng.NormFloat64()*10, 'f', 4, 64))
		}
		row = append(row, fmt.Sprintf("c%d", r%classes))
		raw = append(raw, row)
	}
	return raw
}

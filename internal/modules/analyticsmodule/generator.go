package analyticsmodule

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/streamvault/streamvault/internal/clock"
)

// Simulated network round-trip for a dashboard fetch.
const generateDelay = 1000 * time.Millisecond

// dataPoints is the length of every series: one point per day, ending today.
const dataPoints = 30

// AnalyticsData holds parallel per-day series for the dashboard charts.
// dates[i] is the calendar day of the i-th value in every other series.
type AnalyticsData struct {
	Views     []int     `json:"views"`
	Users     []int     `json:"users"`
	Revenue   []int     `json:"revenue"`
	Retention []float64 `json:"retention"`
	Dates     []string  `json:"dates"`
}

// Generator produces synthetic dashboard metrics: a plausible
// trend-plus-noise curve per series, regenerated wholesale on every call.
type Generator struct {
	clock clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates an analytics generator. The RNG is injected so
// tests can seed it.
func NewGenerator(clk clock.Clock, rng *rand.Rand) *Generator {
	return &Generator{clock: clk, rng: rng}
}

// Generate builds a fresh 30-day data set. It never fails beyond context
// expiry during the simulated delay.
func (g *Generator) Generate(ctx context.Context) (*AnalyticsData, error) {
	if err := g.clock.Sleep(ctx, generateDelay); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	data := &AnalyticsData{
		Views:     make([]int, dataPoints),
		Users:     make([]int, dataPoints),
		Revenue:   make([]int, dataPoints),
		Retention: make([]float64, dataPoints),
		Dates:     make([]string, dataPoints),
	}

	start := g.clock.Now().AddDate(0, 0, -(dataPoints - 1))
	for i := 0; i < dataPoints; i++ {
		data.Views[i] = g.series(5000, 0.05, 1000, i)
		data.Users[i] = g.series(1000, 0.03, 200, i)
		data.Revenue[i] = g.series(10000, 0.02, 500, i)
		data.Retention[i] = g.retention(i)
		data.Dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return data, nil
}

// series evaluates base + base*growth*day + noise in [-amp, +amp],
// floored at zero.
func (g *Generator) series(base, growth float64, amp float64, day int) int {
	value := base + base*growth*float64(day) + g.noise(amp)
	if value < 0 {
		return 0
	}
	return int(value)
}

// retention climbs 0.2 points per day from 75 and is clamped to [0, 100].
func (g *Generator) retention(day int) float64 {
	value := 75 + 0.2*float64(day) + g.noise(5)
	if value > 100 {
		return 100
	}
	if value < 0 {
		return 0
	}
	return value
}

func (g *Generator) noise(amp float64) float64 {
	return g.rng.Float64()*2*amp - amp
}

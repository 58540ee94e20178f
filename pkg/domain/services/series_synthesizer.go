package services

import (
	"math"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

const (
	// DefaultHorizon is the number of points produced when the caller does not pick one
	DefaultHorizon = 40

	// ConfidenceBand is the relative half-width of every synthesized point's band
	ConfidenceBand = 0.10

	// HistoryFraction marks where observed history ends and prediction begins
	HistoryFraction = 0.7

	seasonPeriod    = 12
	seasonAmplitude = 10.0
	lateDrift       = 1.2
)

// SeriesSynthesizer produces deterministic demand trajectories keyed by identifier and iteration
type SeriesSynthesizer struct{}

// NewSeriesSynthesizer creates a new series synthesizer
func NewSeriesSynthesizer() *SeriesSynthesizer {
	return &SeriesSynthesizer{}
}

// Synthesize returns horizon points for the identifier's iteration-th trajectory.
// The result is a pure function of its arguments.
func (s *SeriesSynthesizer) Synthesize(identifier string, iteration, horizon int) ([]entities.SeriesPoint, error) {
	if iteration < 0 {
		return nil, entities.InvalidInputf("iteration cannot be negative, got %d", iteration)
	}
	if horizon < 1 {
		return nil, entities.InvalidInputf("horizon must be positive, got %d", horizon)
	}

	rng := NewMulberry32(SeedFor(identifier, iteration))
	base := 90 + math.Floor(rng.Float64()*80)
	noise := 8 + math.Floor(rng.Float64()*12)

	return generateSeries(rng, horizon, base, noise), nil
}

// generateSeries walks a seasonal random walk. The float64 conversions pin each
// product to a rounded value so no platform fuses them into multiply-adds.
func generateSeries(rng RandomSource, n int, base, noise float64) []entities.SeriesPoint {
	points := make([]entities.SeriesPoint, 0, n)
	lateStart := float64(n) * HistoryFraction
	val := base

	for i := 0; i < n; i++ {
		season := float64(seasonAmplitude * math.Sin(float64(i)/seasonPeriod*math.Pi*2))
		step := float64((rng.Float64() - 0.5) * noise)
		drift := 0.0
		if float64(i) > lateStart {
			drift = lateDrift
		}
		val = val + step + season + drift

		points = append(points, boundedPoint(val))
	}
	return points
}

// boundedPoint emits the rounded value and its ±10% band, widening the band in the
// rare case rounding or the zero clamp pushes the value outside it.
func boundedPoint(val float64) entities.SeriesPoint {
	value := math.Max(0, math.Round(val))
	low := float64(val * (1 - ConfidenceBand))
	high := float64(val * (1 + ConfidenceBand))

	return entities.SeriesPoint{
		Value: int(value),
		Low:   math.Min(low, value),
		High:  math.Max(high, value),
	}
}

// SeriesStats summarises a synthesized series the way the forecast view reports it
type SeriesStats struct {
	Last           int     `json:"last"`
	Average        int     `json:"average"`
	ConfidenceBand float64 `json:"confidence_band"`
	HistoryLength  int     `json:"history_length"`
}

// ComputeSeriesStats returns the last value, the rounded mean and the history split
func ComputeSeriesStats(points []entities.SeriesPoint) SeriesStats {
	if len(points) == 0 {
		return SeriesStats{}
	}

	sum := 0
	for _, p := range points {
		sum += p.Value
	}
	return SeriesStats{
		Last:           points[len(points)-1].Value,
		Average:        int(math.Round(float64(sum) / float64(len(points)))),
		ConfidenceBand: ConfidenceBand,
		HistoryLength:  int(math.Floor(float64(len(points)) * HistoryFraction)),
	}
}

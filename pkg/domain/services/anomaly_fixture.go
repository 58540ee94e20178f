package services

import (
	"math"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

const (
	spikeProbability = 0.06
	delayProbability = 0.05
	outlierMargin    = 50
)

// GenerateAnomalyTimeline builds n synthetic timeline points for demos and tests.
// Randomness comes only from src; seed it with a Mulberry32 to pin a fixture.
func GenerateAnomalyTimeline(src RandomSource, n int) []entities.AnomalyPoint {
	if n < 0 {
		n = 0
	}
	points := make([]entities.AnomalyPoint, 0, n)

	for i := 0; i < n; i++ {
		base := 100 + 20*math.Sin(float64(i)/seasonPeriod*math.Pi*2) + (src.Float64()-0.5)*10
		spike := base
		if src.Float64() < spikeProbability {
			spike = base + 80 + src.Float64()*60
		}
		delayed := src.Float64() < delayProbability

		points = append(points, entities.AnomalyPoint{
			Index:   i + 1,
			Demand:  int(math.Max(0, math.Round(spike))),
			Delayed: delayed,
			Outlier: spike > base+outlierMargin,
		})
	}
	return points
}

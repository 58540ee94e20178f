package dto

import (
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/domain/services"
)

// ForecastResult contains a synthesized trajectory and its summary
type ForecastResult struct {
	Identifier string                 `json:"identifier"`
	Iteration  int                    `json:"iteration"`
	Horizon    int                    `json:"horizon"`
	Points     []entities.SeriesPoint `json:"points"`
	Stats      services.SeriesStats   `json:"stats"`
}

// AnomalyReport contains a classified timeline. Severities[i] belongs to Points[i].
type AnomalyReport struct {
	Points     []entities.AnomalyPoint `json:"points"`
	Severities []entities.Severity     `json:"severities"`
	Summary    entities.AnomalySummary `json:"summary"`
	Headline   string                  `json:"headline"`
}

// Flagged returns the indices of points classified above Normal
func (r *AnomalyReport) Flagged() []int {
	flagged := make([]int, 0)
	for i, severity := range r.Severities {
		if severity != entities.Normal {
			flagged = append(flagged, i)
		}
	}
	return flagged
}

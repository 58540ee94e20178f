package services

import "github.com/vsinha/supplydesk/pkg/domain/entities"

// ClassifySeverity maps a point's flags onto a severity: both flags are critical,
// exactly one is a warning, neither is normal.
func ClassifySeverity(delayed, outlier bool) entities.Severity {
	switch {
	case delayed && outlier:
		return entities.Critical
	case delayed || outlier:
		return entities.Warning
	default:
		return entities.Normal
	}
}

// AnomalyClassifier grades timeline points and rolls them up into a status
type AnomalyClassifier struct{}

// NewAnomalyClassifier creates a new anomaly classifier
func NewAnomalyClassifier() *AnomalyClassifier {
	return &AnomalyClassifier{}
}

// Classify returns one severity per point, in input order, and the summary.
// The overall status is the most severe level present.
func (c *AnomalyClassifier) Classify(points []entities.AnomalyPoint) ([]entities.Severity, entities.AnomalySummary) {
	severities := make([]entities.Severity, len(points))
	summary := entities.AnomalySummary{
		Counts:        make(map[entities.Severity]int, len(entities.Severities)),
		OverallStatus: entities.Normal,
	}
	for _, s := range entities.Severities {
		summary.Counts[s] = 0
	}

	for i, p := range points {
		severity := ClassifySeverity(p.Delayed, p.Outlier)
		severities[i] = severity
		summary.Counts[severity]++
		if severity > summary.OverallStatus {
			summary.OverallStatus = severity
		}
	}

	return severities, summary
}

package entities

import (
	"fmt"
	"strings"
)

// Severity represents the classification of an anomaly point
type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

// Severities lists every severity from least to most severe
var Severities = []Severity{Normal, Warning, Critical}

// String method for Severity enum
func (s Severity) String() string {
	switch s {
	case Normal:
		return "normal"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Headline returns the notification banner text for an overall status
func (s Severity) Headline() string {
	switch s {
	case Warning:
		return "Warnings detected"
	case Critical:
		return "Critical anomalies"
	default:
		return "No anomalies detected"
	}
}

// ParseSeverity converts a severity name into a Severity
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "normal":
		return Normal, nil
	case "warning":
		return Warning, nil
	case "critical":
		return Critical, nil
	default:
		return Normal, fmt.Errorf("unknown severity: %s", value)
	}
}

// MarshalText encodes the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	if s < Normal || s > Critical {
		return nil, fmt.Errorf("unknown severity: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AnomalyPoint represents one observation on a demand/delivery timeline
type AnomalyPoint struct {
	Index   int  `json:"index"`
	Demand  int  `json:"demand"`
	Delayed bool `json:"delayed"`
	Outlier bool `json:"outlier"`
}

// NewAnomalyPoint creates a validated AnomalyPoint
func NewAnomalyPoint(index, demand int, delayed, outlier bool) (*AnomalyPoint, error) {
	point := &AnomalyPoint{
		Index:   index,
		Demand:  demand,
		Delayed: delayed,
		Outlier: outlier,
	}
	if err := point.Validate(); err != nil {
		return nil, err
	}
	return point, nil
}

// Validate checks the point against its data model constraints
func (p AnomalyPoint) Validate() error {
	if p.Index < 1 {
		return InvalidInputf("index must be at least 1, got %d", p.Index)
	}
	if p.Demand < 0 {
		return InvalidInputf("demand cannot be negative, got %d", p.Demand)
	}
	return nil
}

// AnomalySummary represents severity counts and the rolled-up status of a timeline
type AnomalySummary struct {
	Counts        map[Severity]int `json:"counts"`
	OverallStatus Severity         `json:"overall_status"`
}

// Total returns the number of classified points
func (s AnomalySummary) Total() int {
	total := 0
	for _, count := range s.Counts {
		total += count
	}
	return total
}

package events

import (
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/domain/services"
)

const (
	ForecastSynthesizedEvent = "forecast.synthesized"
	AnomaliesClassifiedEvent = "anomalies.classified"
	ProcurementPlannedEvent  = "procurement.planned"
	InventoryPlannedEvent    = "inventory.planned"
)

// Streams for decisions that are not keyed by an identifier
const (
	AnomalyStream     = "anomalies"
	ProcurementStream = "procurement"
	InventoryStream   = "inventory"
)

// DecisionEventTypes lists every event type the decision service emits
var DecisionEventTypes = []string{
	ForecastSynthesizedEvent,
	AnomaliesClassifiedEvent,
	ProcurementPlannedEvent,
	InventoryPlannedEvent,
}

type ForecastSynthesized struct {
	Identifier string               `json:"identifier"`
	Iteration  int                  `json:"iteration"`
	Horizon    int                  `json:"horizon"`
	Stats      services.SeriesStats `json:"stats"`
}

type AnomaliesClassified struct {
	Points  int                     `json:"points"`
	Demo    bool                    `json:"demo"`
	Summary entities.AnomalySummary `json:"summary"`
}

type ProcurementPlanned struct {
	TotalDemand float64                 `json:"total_demand"`
	Plan        entities.AllocationPlan `json:"plan"`
}

type InventoryPlanned struct {
	Demand   float64                 `json:"demand"`
	Capacity float64                 `json:"capacity"`
	Plan     entities.AllocationPlan `json:"plan"`
}

func NewForecastSynthesizedEvent(identifier string, iteration, horizon int, stats services.SeriesStats) Event {
	return NewEvent(ForecastSynthesizedEvent, identifier, ForecastSynthesized{
		Identifier: identifier,
		Iteration:  iteration,
		Horizon:    horizon,
		Stats:      stats,
	})
}

func NewAnomaliesClassifiedEvent(points int, demo bool, summary entities.AnomalySummary) Event {
	return NewEvent(AnomaliesClassifiedEvent, AnomalyStream, AnomaliesClassified{
		Points:  points,
		Demo:    demo,
		Summary: summary,
	})
}

func NewProcurementPlannedEvent(totalDemand float64, plan entities.AllocationPlan) Event {
	return NewEvent(ProcurementPlannedEvent, ProcurementStream, ProcurementPlanned{
		TotalDemand: totalDemand,
		Plan:        plan.Clone(),
	})
}

func NewInventoryPlannedEvent(demand, capacity float64, plan entities.AllocationPlan) Event {
	return NewEvent(InventoryPlannedEvent, InventoryStream, InventoryPlanned{
		Demand:   demand,
		Capacity: capacity,
		Plan:     plan.Clone(),
	})
}

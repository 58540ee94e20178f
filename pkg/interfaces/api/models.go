package api

import (
	"time"

	"github.com/vsinha/supplydesk/pkg/application/dto"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/infrastructure/events"
)

// ForecastRequest selects a trajectory; a zero horizon picks the server default
type ForecastRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Iteration  int    `json:"iteration"`
	Horizon    int    `json:"horizon"`
}

// ClassifyRequest carries a timeline to classify
type ClassifyRequest struct {
	Points []entities.AnomalyPoint `json:"points"`
}

// ProcurementRequest asks for a score-proportional split of total demand
type ProcurementRequest struct {
	TotalDemand *float64            `json:"total_demand" binding:"required"`
	Suppliers   []entities.Supplier `json:"suppliers"`
}

// InventoryRequest asks for a cheapest-first fill of min(demand, capacity)
type InventoryRequest struct {
	Demand    *float64            `json:"demand" binding:"required"`
	Capacity  *float64            `json:"capacity" binding:"required"`
	Suppliers []entities.Supplier `json:"suppliers"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// AnomalyReportResponse is a classified timeline
type AnomalyReportResponse struct {
	Points   []ClassifiedPointResponse `json:"points"`
	Summary  entities.AnomalySummary   `json:"summary"`
	Headline string                    `json:"headline"`
}

// ClassifiedPointResponse is one timeline point with its severity
type ClassifiedPointResponse struct {
	entities.AnomalyPoint
	Severity entities.Severity `json:"severity"`
}

// PlanLineResponse is an allocation line with money as a JSON number
type PlanLineResponse struct {
	SupplierID   entities.SupplierID `json:"supplier_id"`
	Name         string              `json:"name"`
	PricePerUnit float64             `json:"price_per_unit"`
	Quantity     entities.Quantity   `json:"quantity"`
	Cost         float64             `json:"cost"`
	Score        float64             `json:"score,omitempty"`
	ETADays      float64             `json:"eta_days,omitempty"`
}

// WarningResponse describes a plan warning
type WarningResponse struct {
	Code    entities.WarningCode `json:"code"`
	Message string               `json:"message"`
}

// PlanResponse is an allocation plan
type PlanResponse struct {
	Lines         []PlanLineResponse `json:"lines"`
	TotalQuantity entities.Quantity  `json:"total_quantity"`
	TotalCost     float64            `json:"total_cost"`
	Warnings      []WarningResponse  `json:"warnings"`
}

// EventResponse is one entry of the decision audit trail
type EventResponse struct {
	Position  int         `json:"position"`
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	StreamID  string      `json:"stream_id"`
	Version   int         `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// FromAnomalyReport builds the response for a classified timeline
func FromAnomalyReport(report *dto.AnomalyReport) AnomalyReportResponse {
	points := make([]ClassifiedPointResponse, len(report.Points))
	for i, p := range report.Points {
		points[i] = ClassifiedPointResponse{AnomalyPoint: p, Severity: report.Severities[i]}
	}
	return AnomalyReportResponse{
		Points:   points,
		Summary:  report.Summary,
		Headline: report.Headline,
	}
}

// FromPlan builds the response for an allocation plan
func FromPlan(plan *entities.AllocationPlan) PlanResponse {
	lines := make([]PlanLineResponse, len(plan.Lines))
	for i, line := range plan.Lines {
		lines[i] = PlanLineResponse{
			SupplierID:   line.SupplierID,
			Name:         line.SupplierName,
			PricePerUnit: line.PricePerUnit,
			Quantity:     line.Quantity,
			Cost:         line.Cost.InexactFloat64(),
			Score:        line.Score,
			ETADays:      line.ETADays,
		}
	}

	warnings := make([]WarningResponse, len(plan.Warnings))
	for i, w := range plan.Warnings {
		warnings[i] = WarningResponse{Code: w, Message: w.Message()}
	}

	return PlanResponse{
		Lines:         lines,
		TotalQuantity: plan.TotalQuantity,
		TotalCost:     plan.TotalCost.InexactFloat64(),
		Warnings:      warnings,
	}
}

// FromEvents builds audit trail entries numbered from the first position
func FromEvents(trail []events.Event, firstPosition int) []EventResponse {
	out := make([]EventResponse, len(trail))
	for i, e := range trail {
		out[i] = EventResponse{
			Position:  firstPosition + i,
			ID:        e.ID(),
			Type:      e.Type(),
			StreamID:  e.StreamID(),
			Version:   e.Version(),
			Timestamp: e.Timestamp(),
			Data:      e.Data(),
		}
	}
	return out
}

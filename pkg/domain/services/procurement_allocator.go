package services

import (
	"math"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

// Scoring weights for supplier ranking. They sum to 1.
const (
	PriceWeight       = 0.45
	LeadTimeWeight    = 0.25
	ReliabilityWeight = 0.30

	leadTimeOffset = 0.1
)

// ProcurementAllocator splits demand across suppliers in proportion to their scores
type ProcurementAllocator struct {
	validator *SupplierValidator
}

// NewProcurementAllocator creates a new procurement allocator
func NewProcurementAllocator() *ProcurementAllocator {
	return &ProcurementAllocator{validator: NewSupplierValidator()}
}

// ScoreSupplier returns the weighted price, lead time and reliability score
func ScoreSupplier(s entities.Supplier) float64 {
	return PriceWeight*(1/s.PricePerUnit) +
		LeadTimeWeight*(1/(s.LeadTimeDays+leadTimeOffset)) +
		ReliabilityWeight*s.Reliability
}

// Allocate assigns round(totalDemand × score / Σscore) units to each supplier, in
// input order. Lines are rounded independently, so the total may drift from the
// rounded demand by a few units.
func (a *ProcurementAllocator) Allocate(totalDemand float64, suppliers []entities.Supplier) (entities.AllocationPlan, error) {
	if err := validateQuantity("total demand", totalDemand); err != nil {
		return entities.AllocationPlan{}, err
	}
	if len(suppliers) == 0 {
		return entities.AllocationPlan{}, entities.InvalidInputf("supplier set cannot be empty")
	}
	if err := a.validator.ValidateSuppliers(suppliers).Err(); err != nil {
		return entities.AllocationPlan{}, err
	}

	scores := make([]float64, len(suppliers))
	totalScore := 0.0
	for i, s := range suppliers {
		scores[i] = ScoreSupplier(s)
		totalScore += scores[i]
	}
	if !entities.IsFinite(totalScore) || totalScore <= 0 {
		return entities.AllocationPlan{}, entities.InvalidInputf("supplier scores must sum to a positive value, got %v", totalScore)
	}

	lines := make([]entities.AllocationLine, 0, len(suppliers))
	for i, s := range suppliers {
		share := math.Round(scores[i] / totalScore * totalDemand)
		if !entities.IsFinite(share) || share > maxQuantity {
			return entities.AllocationPlan{}, entities.InvalidInputf("allocation for supplier %s is out of range: %v", describeSupplier(s), share)
		}

		line, err := entities.NewAllocationLine(s, entities.Quantity(share))
		if err != nil {
			return entities.AllocationPlan{}, err
		}
		line.Score = scores[i]
		line.ETADays = s.LeadTimeDays
		lines = append(lines, line)
	}

	return entities.NewAllocationPlan(lines), nil
}

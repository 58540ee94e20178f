package services

import (
	"math"
	"sort"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

// InventoryAllocator fills demand from the cheapest suppliers first, capping each
// supplier's share by its reliability
type InventoryAllocator struct {
	validator *SupplierValidator
}

// NewInventoryAllocator creates a new inventory allocator
func NewInventoryAllocator() *InventoryAllocator {
	return &InventoryAllocator{validator: NewSupplierValidator()}
}

// ReliabilityCap returns the most a supplier may take out of the remaining quantity
func ReliabilityCap(remaining, reliability float64) float64 {
	return math.Floor(remaining * (0.5 + reliability*0.5))
}

// Allocate makes a single pass over suppliers in ascending price order (ties keep
// input order) until min(demand, capacity) is placed or suppliers run out. Every
// visited supplier gets a line, even when its capped share is zero. Suppliers are
// never revisited.
func (a *InventoryAllocator) Allocate(demand, capacity float64, suppliers []entities.Supplier) (entities.AllocationPlan, error) {
	if err := validateQuantity("demand", demand); err != nil {
		return entities.AllocationPlan{}, err
	}
	if err := validateQuantity("capacity", capacity); err != nil {
		return entities.AllocationPlan{}, err
	}
	if err := a.validator.ValidateSuppliers(suppliers).Err(); err != nil {
		return entities.AllocationPlan{}, err
	}

	sorted := make([]entities.Supplier, len(suppliers))
	copy(sorted, suppliers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PricePerUnit < sorted[j].PricePerUnit
	})

	remaining := math.Min(demand, capacity)
	lines := make([]entities.AllocationLine, 0, len(sorted))
	for _, s := range sorted {
		if remaining <= 0 {
			break
		}
		qty := math.Min(ReliabilityCap(remaining, s.Reliability), remaining)

		line, err := entities.NewAllocationLine(s, entities.Quantity(qty))
		if err != nil {
			return entities.AllocationPlan{}, err
		}
		lines = append(lines, line)
		remaining -= qty
	}

	plan := entities.NewAllocationPlan(lines)
	if float64(plan.TotalQuantity) < demand {
		plan.Warnings = append(plan.Warnings, entities.UnderstockRisk)
	}
	if float64(plan.TotalQuantity) > capacity {
		plan.Warnings = append(plan.Warnings, entities.OverstockRisk)
	}
	return plan, nil
}

package entities

import "github.com/shopspring/decimal"

// Quantity represents an integer quantity of discrete units
type Quantity int64

// WarningCode flags a risk detected while building an allocation plan
type WarningCode string

const (
	UnderstockRisk WarningCode = "understock_risk"
	OverstockRisk  WarningCode = "overstock_risk"
)

// String method for WarningCode enum
func (w WarningCode) String() string {
	switch w {
	case UnderstockRisk:
		return "UnderstockRisk"
	case OverstockRisk:
		return "OverstockRisk"
	default:
		return "Unknown"
	}
}

// Message returns the operator-facing description of the warning
func (w WarningCode) Message() string {
	switch w {
	case UnderstockRisk:
		return "Understock risk: insufficient quantity to meet demand"
	case OverstockRisk:
		return "Overstock risk: exceeds warehouse capacity"
	default:
		return string(w)
	}
}

// AllocationLine represents one supplier's share of an allocation plan
type AllocationLine struct {
	SupplierID   SupplierID      `json:"supplier_id"`
	SupplierName string          `json:"name"`
	PricePerUnit float64         `json:"price_per_unit"`
	Quantity     Quantity        `json:"quantity"`
	Cost         decimal.Decimal `json:"cost"`
	Score        float64         `json:"score,omitempty"`
	ETADays      float64         `json:"eta_days,omitempty"`
}

// NewAllocationLine creates a line for the supplier with its cost rounded to cents
func NewAllocationLine(supplier Supplier, quantity Quantity) (AllocationLine, error) {
	if quantity < 0 {
		return AllocationLine{}, InvalidInputf("quantity cannot be negative, got %d", quantity)
	}
	return AllocationLine{
		SupplierID:   supplier.ID,
		SupplierName: supplier.DisplayName(),
		PricePerUnit: supplier.PricePerUnit,
		Quantity:     quantity,
		Cost:         LineCost(quantity, supplier.PricePerUnit),
	}, nil
}

// LineCost returns round(quantity × price, 2)
func LineCost(quantity Quantity, pricePerUnit float64) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).
		Mul(decimal.NewFromFloat(pricePerUnit)).
		Round(2)
}

// AllocationPlan represents an ordered set of allocation lines with totals
type AllocationPlan struct {
	Lines         []AllocationLine `json:"lines"`
	TotalQuantity Quantity         `json:"total_quantity"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	Warnings      []WarningCode    `json:"warnings"`
}

// NewAllocationPlan builds a plan from its lines, summing quantities and rounded costs
func NewAllocationPlan(lines []AllocationLine) AllocationPlan {
	plan := AllocationPlan{
		Lines:     make([]AllocationLine, len(lines)),
		TotalCost: decimal.Zero,
		Warnings:  []WarningCode{},
	}
	copy(plan.Lines, lines)
	for _, line := range lines {
		plan.TotalQuantity += line.Quantity
		plan.TotalCost = plan.TotalCost.Add(line.Cost)
	}
	return plan
}

// HasWarning reports whether the plan carries the given warning
func (p AllocationPlan) HasWarning(code WarningCode) bool {
	for _, w := range p.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

// NonZeroLines returns the lines that actually received stock
func (p AllocationPlan) NonZeroLines() []AllocationLine {
	lines := make([]AllocationLine, 0, len(p.Lines))
	for _, line := range p.Lines {
		if line.Quantity > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// Clone returns a deep copy so callers never share slices with a cached plan
func (p AllocationPlan) Clone() AllocationPlan {
	clone := p
	clone.Lines = make([]AllocationLine, len(p.Lines))
	copy(clone.Lines, p.Lines)
	clone.Warnings = make([]WarningCode, len(p.Warnings))
	copy(clone.Warnings, p.Warnings)
	return clone
}

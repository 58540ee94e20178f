package entities

import "math"

// SupplierID represents a supplier identifier, unique within a single request
type SupplierID string

// Supplier represents a candidate source of stock with its commercial terms
type Supplier struct {
	ID           SupplierID `json:"supplier_id"`
	Name         string     `json:"name"`
	PricePerUnit float64    `json:"price_per_unit"`
	LeadTimeDays float64    `json:"lead_time_days"`
	Reliability  float64    `json:"reliability"`
}

// NewSupplier creates a validated Supplier
func NewSupplier(id SupplierID, name string, pricePerUnit, leadTimeDays, reliability float64) (*Supplier, error) {
	supplier := &Supplier{
		ID:           id,
		Name:         name,
		PricePerUnit: pricePerUnit,
		LeadTimeDays: leadTimeDays,
		Reliability:  reliability,
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Validate checks the supplier against its data model constraints
func (s Supplier) Validate() error {
	if string(s.ID) == "" {
		return InvalidInputf("supplier id cannot be empty")
	}
	if !IsFinite(s.PricePerUnit) || s.PricePerUnit <= 0 {
		return InvalidInputf("supplier %s: price per unit must be positive, got %v", s.ID, s.PricePerUnit)
	}
	if !IsFinite(s.LeadTimeDays) || s.LeadTimeDays < 0 {
		return InvalidInputf("supplier %s: lead time cannot be negative, got %v", s.ID, s.LeadTimeDays)
	}
	if !IsReliability(s.Reliability) {
		return InvalidInputf("supplier %s: reliability must be within [0,1], got %v", s.ID, s.Reliability)
	}
	return nil
}

// DisplayName returns the supplier name, falling back to its ID
func (s Supplier) DisplayName() string {
	if s.Name == "" {
		return string(s.ID)
	}
	return s.Name
}

// IsReliability reports whether r is a usable reliability ratio
func IsReliability(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 1
}

// IsFinite reports whether v is neither NaN nor an infinity
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

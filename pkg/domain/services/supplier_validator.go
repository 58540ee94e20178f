package services

import (
	"fmt"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

// SupplierValidator checks a supplier set before it is allocated against
type SupplierValidator struct{}

// NewSupplierValidator creates a new supplier validator
func NewSupplierValidator() *SupplierValidator {
	return &SupplierValidator{}
}

// ValidationResult contains the results of supplier validation
type ValidationResult struct {
	DuplicateIDs []entities.SupplierID
	Errors       []error
}

// Err returns the first validation failure, or nil when the set is usable
func (r *ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// ValidateSuppliers checks every supplier's fields and the uniqueness of IDs
func (v *SupplierValidator) ValidateSuppliers(suppliers []entities.Supplier) *ValidationResult {
	result := &ValidationResult{
		DuplicateIDs: make([]entities.SupplierID, 0),
		Errors:       make([]error, 0),
	}

	seen := make(map[entities.SupplierID]bool, len(suppliers))
	for _, supplier := range suppliers {
		if err := supplier.Validate(); err != nil {
			result.Errors = append(result.Errors, err)
		}
		if seen[supplier.ID] {
			result.DuplicateIDs = append(result.DuplicateIDs, supplier.ID)
			continue
		}
		seen[supplier.ID] = true
	}

	if len(result.DuplicateIDs) > 0 {
		result.Errors = append(result.Errors,
			entities.InvalidInputf("duplicate supplier ids: %v", result.DuplicateIDs))
	}

	return result
}

// maxQuantity is the largest demand that still converts exactly into a Quantity
const maxQuantity = 1 << 53

func validateQuantity(name string, value float64) error {
	if !entities.IsFinite(value) {
		return entities.InvalidInputf("%s must be finite, got %v", name, value)
	}
	if value < 0 {
		return entities.InvalidInputf("%s cannot be negative, got %v", name, value)
	}
	if value > maxQuantity {
		return entities.InvalidInputf("%s exceeds %d, got %v", name, int64(maxQuantity), value)
	}
	return nil
}

func describeSupplier(s entities.Supplier) string {
	return fmt.Sprintf("%s (%s)", s.ID, s.DisplayName())
}

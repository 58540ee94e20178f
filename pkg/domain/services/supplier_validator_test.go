package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

func TestSupplierValidator_ValidSet(t *testing.T) {
	result := NewSupplierValidator().ValidateSuppliers(demoSuppliers())

	if err := result.Err(); err != nil {
		t.Errorf("Expected valid supplier set, got %v", err)
	}
	if len(result.DuplicateIDs) != 0 {
		t.Errorf("Expected no duplicates, got %v", result.DuplicateIDs)
	}
}

func TestSupplierValidator_Duplicates(t *testing.T) {
	suppliers := demoSuppliers()
	suppliers = append(suppliers, suppliers[1], suppliers[1])

	result := NewSupplierValidator().ValidateSuppliers(suppliers)

	expected := []entities.SupplierID{"S-204", "S-204"}
	if !reflect.DeepEqual(result.DuplicateIDs, expected) {
		t.Errorf("Expected duplicates %v, got %v", expected, result.DuplicateIDs)
	}
	err := result.Err()
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "invalid input: duplicate supplier ids: [S-204 S-204]" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestSupplierValidator_FieldErrorsComeFirst(t *testing.T) {
	suppliers := demoSuppliers()
	suppliers[2].LeadTimeDays = -1
	suppliers = append(suppliers, suppliers[0])

	result := NewSupplierValidator().ValidateSuppliers(suppliers)

	if len(result.Errors) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Err().Error() != "invalid input: supplier S-318: lead time cannot be negative, got -1" {
		t.Errorf("Unexpected first error: %v", result.Err())
	}
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"fractional", 12.5, false},
		{"largest_exact", maxQuantity, false},
		{"negative", -0.5, true},
		{"too_large", maxQuantity * 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuantity("demand", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateQuantity(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

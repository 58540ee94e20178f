package services

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

func TestScoreWeightsSumToOne(t *testing.T) {
	if math.Abs(PriceWeight+LeadTimeWeight+ReliabilityWeight-1) > 1e-12 {
		t.Errorf("Expected weights to sum to 1, got %v", PriceWeight+LeadTimeWeight+ReliabilityWeight)
	}
}

func TestProcurementAllocator_DemoTable(t *testing.T) {
	allocator := NewProcurementAllocator()

	plan, err := allocator.Allocate(500, demoSuppliers())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	expected := []struct {
		id       entities.SupplierID
		score    float64
		quantity entities.Quantity
		cost     string
	}{
		{"S-101", 0.4844012588512982, 131, "537.1"},
		{"S-204", 0.43283288922725544, 117, "432.9"},
		{"S-318", 0.4808737060041408, 130, "598"},
		{"S-427", 0.44940422322775264, 122, "475.8"},
	}

	if len(plan.Lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d", len(expected), len(plan.Lines))
	}
	for i, want := range expected {
		line := plan.Lines[i]
		if line.SupplierID != want.id {
			t.Errorf("line %d: expected supplier %s, got %s", i, want.id, line.SupplierID)
		}
		if math.Abs(line.Score-want.score) > 1e-12 {
			t.Errorf("line %d: expected score %v, got %v", i, want.score, line.Score)
		}
		if line.Quantity != want.quantity {
			t.Errorf("line %d: expected quantity %d, got %d", i, want.quantity, line.Quantity)
		}
		if !line.Cost.Equal(decimal.RequireFromString(want.cost)) {
			t.Errorf("line %d: expected cost %s, got %s", i, want.cost, line.Cost)
		}
	}

	if plan.TotalQuantity != 500 {
		t.Errorf("Expected total quantity 500, got %d", plan.TotalQuantity)
	}
	if !plan.TotalCost.Equal(decimal.RequireFromString("2043.8")) {
		t.Errorf("Expected total cost 2043.80, got %s", plan.TotalCost)
	}
	if plan.Lines[1].ETADays != 7 {
		t.Errorf("Expected ETA 7 days for S-204, got %v", plan.Lines[1].ETADays)
	}
}

func TestProcurementAllocator_RoundingDriftIsPreserved(t *testing.T) {
	allocator := NewProcurementAllocator()

	plan, err := allocator.Allocate(100, demoSuppliers())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	quantities := []entities.Quantity{}
	for _, line := range plan.Lines {
		quantities = append(quantities, line.Quantity)
	}
	if !reflect.DeepEqual(quantities, []entities.Quantity{26, 23, 26, 24}) {
		t.Errorf("Expected quantities [26 23 26 24], got %v", quantities)
	}
	if plan.TotalQuantity != 99 {
		t.Errorf("Expected independently rounded total 99, got %d", plan.TotalQuantity)
	}
	if !plan.TotalCost.Equal(decimal.RequireFromString("404.9")) {
		t.Errorf("Expected total cost 404.9, got %s", plan.TotalCost)
	}
}

func TestProcurementAllocator_ZeroDemand(t *testing.T) {
	plan, err := NewProcurementAllocator().Allocate(0, demoSuppliers())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(plan.Lines) != 4 {
		t.Errorf("Expected a line per supplier, got %d", len(plan.Lines))
	}
	if plan.TotalQuantity != 0 || !plan.TotalCost.IsZero() {
		t.Errorf("Expected empty totals, got %d / %s", plan.TotalQuantity, plan.TotalCost)
	}
}

func TestProcurementAllocator_Idempotent(t *testing.T) {
	allocator := NewProcurementAllocator()
	suppliers := demoSuppliers()

	first, _ := allocator.Allocate(731, suppliers)
	second, _ := allocator.Allocate(731, suppliers)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical plans, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(suppliers, demoSuppliers()) {
		t.Error("Expected supplier input to be left untouched")
	}
}

func TestProcurementAllocator_InvalidInput(t *testing.T) {
	allocator := NewProcurementAllocator()

	duplicate := demoSuppliers()
	duplicate[2].ID = "S-101"

	zeroPrice := demoSuppliers()
	zeroPrice[0].PricePerUnit = 0

	badReliability := demoSuppliers()
	badReliability[1].Reliability = 1.5

	tests := []struct {
		name      string
		demand    float64
		suppliers []entities.Supplier
	}{
		{"negative_demand", -1, demoSuppliers()},
		{"nan_demand", math.NaN(), demoSuppliers()},
		{"infinite_demand", math.Inf(1), demoSuppliers()},
		{"empty_suppliers", 100, []entities.Supplier{}},
		{"nil_suppliers", 100, nil},
		{"zero_price", 100, zeroPrice},
		{"reliability_out_of_range", 100, badReliability},
		{"duplicate_ids", 100, duplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := allocator.Allocate(tt.demand, tt.suppliers)
			if !errors.Is(err, entities.ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			if len(plan.Lines) != 0 {
				t.Errorf("Expected no partial plan, got %d lines", len(plan.Lines))
			}
		})
	}
}

package csv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

func TestLoader_LoadSuppliers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suppliers.csv")
	content := "supplier_id,name,price_per_unit,lead_time_days,reliability\n" +
		"S-101,Alpha Supply,4.1,3,0.98\n" +
		"S-204, Bravo Logistics ,3.7,7,0.92\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	suppliers, err := NewLoader().LoadSuppliers(path)
	if err != nil {
		t.Fatalf("LoadSuppliers failed: %v", err)
	}

	if len(suppliers) != 2 {
		t.Fatalf("Expected 2 suppliers, got %d", len(suppliers))
	}

	expected := entities.Supplier{ID: "S-204", Name: "Bravo Logistics", PricePerUnit: 3.7, LeadTimeDays: 7, Reliability: 0.92}
	if suppliers[1] != expected {
		t.Errorf("Expected %+v, got %+v", expected, suppliers[1])
	}
}

func TestLoader_LoadSuppliers_MissingFile(t *testing.T) {
	_, err := NewLoader().LoadSuppliers(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoader_ReadSuppliers_Errors(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		contains     string
		invalidInput bool
	}{
		{
			name:     "header_only",
			content:  "supplier_id,name,price_per_unit,lead_time_days,reliability\n",
			contains: "must have header and at least one data row",
		},
		{
			name:     "wrong_header",
			content:  "id,name,price,lead,rel\nS-1,A,1,1,1\n",
			contains: "header mismatch",
		},
		{
			name:     "short_row",
			content:  "supplier_id,name,price_per_unit,lead_time_days,reliability\nS-1,A,1\n",
			contains: "row 2: expected 5 columns, got 3",
		},
		{
			name:     "bad_number",
			content:  "supplier_id,name,price_per_unit,lead_time_days,reliability\nS-1,A,cheap,1,1\n",
			contains: "invalid price_per_unit: cheap",
		},
		{
			name:         "reliability_out_of_range",
			content:      "supplier_id,name,price_per_unit,lead_time_days,reliability\nS-1,A,1,1,1\nS-2,B,1,1,1.2\n",
			contains:     "suppliers CSV row 3",
			invalidInput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().ReadSuppliers(strings.NewReader(tt.content))
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error to contain %q, got: %v", tt.contains, err)
			}
			if errors.Is(err, entities.ErrInvalidInput) != tt.invalidInput {
				t.Errorf("Expected ErrInvalidInput=%v, got %v", tt.invalidInput, err)
			}
		})
	}
}

func TestLoader_ReadAnomalyPoints(t *testing.T) {
	content := "Index, Demand ,delayed,outlier\n" +
		"1,120,false,false\n" +
		"2,210,true,1\n" +
		"3,98,TRUE,f\n"

	points, err := NewLoader().ReadAnomalyPoints(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadAnomalyPoints failed: %v", err)
	}

	expected := []entities.AnomalyPoint{
		{Index: 1, Demand: 120},
		{Index: 2, Demand: 210, Delayed: true, Outlier: true},
		{Index: 3, Demand: 98, Delayed: true},
	}
	if len(points) != len(expected) {
		t.Fatalf("Expected %d points, got %d", len(expected), len(points))
	}
	for i := range expected {
		if points[i] != expected[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, expected[i], points[i])
		}
	}
}

func TestLoader_ReadAnomalyPoints_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"bad_flag", "index,demand,delayed,outlier\n1,10,maybe,false\n", "invalid delayed flag: maybe"},
		{"negative_demand", "index,demand,delayed,outlier\n1,-10,false,false\n", "demand cannot be negative"},
		{"zero_index", "index,demand,delayed,outlier\n0,10,false,false\n", "index must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().ReadAnomalyPoints(strings.NewReader(tt.content))
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error to contain %q, got: %v", tt.contains, err)
			}
		})
	}
}

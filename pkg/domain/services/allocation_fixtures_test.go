package services

import "github.com/vsinha/supplydesk/pkg/domain/entities"

func demoSuppliers() []entities.Supplier {
	return []entities.Supplier{
		{ID: "S-101", Name: "Alpha Supply", PricePerUnit: 4.1, LeadTimeDays: 3, Reliability: 0.98},
		{ID: "S-204", Name: "Bravo Logistics", PricePerUnit: 3.7, LeadTimeDays: 7, Reliability: 0.92},
		{ID: "S-318", Name: "Cinder Trade", PricePerUnit: 4.6, LeadTimeDays: 2, Reliability: 0.88},
		{ID: "S-427", Name: "Delta Partners", PricePerUnit: 3.9, LeadTimeDays: 5, Reliability: 0.95},
	}
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/domain/repositories"
)

// SupplierRepository provides in-memory supplier storage
type SupplierRepository struct {
	mu           sync.RWMutex
	suppliers    []entities.Supplier
	suppliersMap map[entities.SupplierID]int
}

// NewSupplierRepository creates a new in-memory supplier repository
func NewSupplierRepository(expectedSuppliers int) *SupplierRepository {
	return &SupplierRepository{
		suppliers:    make([]entities.Supplier, 0, expectedSuppliers),
		suppliersMap: make(map[entities.SupplierID]int, expectedSuppliers),
	}
}

// Verify interface compliance
var _ repositories.SupplierRepository = (*SupplierRepository)(nil)

// DemoSuppliers returns the four-supplier catalog shipped with the service
func DemoSuppliers() []entities.Supplier {
	return []entities.Supplier{
		{ID: "S-101", Name: "Alpha Supply", PricePerUnit: 4.1, LeadTimeDays: 3, Reliability: 0.98},
		{ID: "S-204", Name: "Bravo Logistics", PricePerUnit: 3.7, LeadTimeDays: 7, Reliability: 0.92},
		{ID: "S-318", Name: "Cinder Trade", PricePerUnit: 4.6, LeadTimeDays: 2, Reliability: 0.88},
		{ID: "S-427", Name: "Delta Partners", PricePerUnit: 3.9, LeadTimeDays: 5, Reliability: 0.95},
	}
}

// NewDemoSupplierRepository creates a repository seeded with DemoSuppliers
func NewDemoSupplierRepository() *SupplierRepository {
	demo := DemoSuppliers()
	repo := NewSupplierRepository(len(demo))
	for _, s := range demo {
		repo.add(s)
	}
	return repo
}

// LoadSuppliers validates and appends suppliers. The whole batch is rejected when
// any supplier is invalid or its ID is already present.
func (r *SupplierRepository) LoadSuppliers(ctx context.Context, suppliers []entities.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var duplicates []entities.SupplierID
	batch := make(map[entities.SupplierID]bool, len(suppliers))
	for _, s := range suppliers {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, exists := r.suppliersMap[s.ID]; exists || batch[s.ID] {
			duplicates = append(duplicates, s.ID)
		}
		batch[s.ID] = true
	}
	if len(duplicates) > 0 {
		return entities.InvalidInputf("duplicate supplier ids found: %v", duplicates)
	}

	for _, s := range suppliers {
		r.add(s)
	}
	return nil
}

// SaveSupplier saves a single supplier to the repository
func (r *SupplierRepository) SaveSupplier(ctx context.Context, supplier entities.Supplier) error {
	return r.LoadSuppliers(ctx, []entities.Supplier{supplier})
}

func (r *SupplierRepository) add(supplier entities.Supplier) {
	r.suppliersMap[supplier.ID] = len(r.suppliers)
	r.suppliers = append(r.suppliers, supplier)
}

// GetSupplier returns a copy of the supplier with the given ID
func (r *SupplierRepository) GetSupplier(ctx context.Context, id entities.SupplierID) (*entities.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.suppliersMap[id]
	if !exists {
		return nil, fmt.Errorf("supplier not found: %s", id)
	}
	supplier := r.suppliers[index]
	return &supplier, nil
}

// GetAllSuppliers returns the catalog in insertion order
func (r *SupplierRepository) GetAllSuppliers(ctx context.Context) ([]entities.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suppliers := make([]entities.Supplier, len(r.suppliers))
	copy(suppliers, r.suppliers)
	return suppliers, nil
}

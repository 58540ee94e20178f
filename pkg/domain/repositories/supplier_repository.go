package repositories

import (
	"context"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

// SupplierRepository provides access to the supplier catalog used when a request
// carries no supplier table of its own
type SupplierRepository interface {
	GetSupplier(ctx context.Context, id entities.SupplierID) (*entities.Supplier, error)
	GetAllSuppliers(ctx context.Context) ([]entities.Supplier, error)
	LoadSuppliers(ctx context.Context, suppliers []entities.Supplier) error
}

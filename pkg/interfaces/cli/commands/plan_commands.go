package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/supplydesk/pkg/interfaces/cli/output"
)

// PlanConfig holds configuration for the procurement and inventory commands
type PlanConfig struct {
	Config
	// SuppliersFile is a supplier table CSV; empty plans against the built-in catalog
	SuppliersFile string
	Demand        float64
	// Capacity applies to inventory plans only
	Capacity float64
}

func (c PlanConfig) loadSuppliers() ([]entities.Supplier, error) {
	if c.SuppliersFile == "" {
		return nil, nil
	}
	if c.Verbose {
		fmt.Fprintf(c.out(), "📂 Loading suppliers from %s...\n", c.SuppliersFile)
	}
	suppliers, err := csv.NewLoader().LoadSuppliers(c.SuppliersFile)
	if err != nil {
		return nil, fmt.Errorf("error loading suppliers: %w", err)
	}
	if c.Verbose {
		fmt.Fprintf(c.out(), "✅ Loaded %d suppliers\n", len(suppliers))
	}
	return suppliers, nil
}

// ProcureCommand splits a demand across suppliers by score
type ProcureCommand struct {
	config PlanConfig
}

// NewProcureCommand creates a new procurement command with the given configuration
func NewProcureCommand(config PlanConfig) *ProcureCommand {
	return &ProcureCommand{config: config}
}

// Execute runs the procurement command
func (c *ProcureCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	return withRuntime(ctx, c.config.Config, func(rt *Runtime) error {
		suppliers, err := c.config.loadSuppliers()
		if err != nil {
			return err
		}

		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "🧮 Splitting demand of %v across suppliers...\n", c.config.Demand)
		}
		start := time.Now()
		plan, err := rt.Service.RecommendProcurement(ctx, c.config.Demand, suppliers)
		if err != nil {
			return fmt.Errorf("error planning procurement: %w", err)
		}
		elapsed := time.Since(start)

		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "✅ Procurement plan ready in %v\n\n", elapsed)
		}
		return output.WritePlan("Procurement plan", plan, c.config.outputConfig(elapsed))
	})
}

func (c *ProcureCommand) showHelp() {
	fmt.Fprint(c.config.out(), `supplydesk procure - split a demand across suppliers by weighted score

USAGE:
    supplydesk procure -demand <qty> [-suppliers <file>]

OPTIONS:
    -demand <qty>       Total quantity to procure
    -suppliers <file>   Supplier CSV; defaults to the built-in catalog
`+commonHelp)
}

// InventoryCommand fills demand from the cheapest suppliers within warehouse capacity
type InventoryCommand struct {
	config PlanConfig
}

// NewInventoryCommand creates a new inventory command with the given configuration
func NewInventoryCommand(config PlanConfig) *InventoryCommand {
	return &InventoryCommand{config: config}
}

// Execute runs the inventory command
func (c *InventoryCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	return withRuntime(ctx, c.config.Config, func(rt *Runtime) error {
		suppliers, err := c.config.loadSuppliers()
		if err != nil {
			return err
		}

		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "🏭 Allocating demand of %v within capacity %v...\n", c.config.Demand, c.config.Capacity)
		}
		start := time.Now()
		plan, err := rt.Service.OptimizeInventory(ctx, c.config.Demand, c.config.Capacity, suppliers)
		if err != nil {
			return fmt.Errorf("error optimizing inventory: %w", err)
		}
		elapsed := time.Since(start)

		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "✅ Inventory plan ready in %v\n\n", elapsed)
		}
		return output.WritePlan("Inventory plan", plan, c.config.outputConfig(elapsed))
	})
}

func (c *InventoryCommand) showHelp() {
	fmt.Fprint(c.config.out(), `supplydesk inventory - fill demand from the cheapest suppliers within capacity

USAGE:
    supplydesk inventory -demand <qty> -capacity <qty> [-suppliers <file>]

OPTIONS:
    -demand <qty>       Quantity required
    -capacity <qty>     Warehouse capacity
    -suppliers <file>   Supplier CSV; defaults to the built-in catalog
`+commonHelp)
}

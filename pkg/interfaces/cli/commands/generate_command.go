package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	appservices "github.com/vsinha/supplydesk/pkg/application/services"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/domain/services"
)

var supplierNamePrefixes = []string{"Alpha", "Bravo", "Cinder", "Delta", "Echo", "Foxtrot", "Granite", "Harbor"}
var supplierNameSuffixes = []string{"Supply", "Logistics", "Trade", "Partners", "Freight", "Sourcing"}

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Suppliers int    // Number of suppliers to generate
	Points    int    // Length of the anomaly timeline
	OutputDir string // Output directory for generated files
	Seed      uint32 // Random seed for reproducible generation
	Help      bool
	Verbose   bool
	Out       io.Writer
}

// GenerateCommand writes a supplier table and an anomaly timeline that the
// other commands accept as input
type GenerateCommand struct {
	config GenerateConfig
	rng    *services.Mulberry32
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
		config.Seed = seed
	}

	return &GenerateCommand{
		config: config,
		rng:    services.NewMulberry32(seed),
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if cmd.config.Suppliers < 1 {
		return entities.InvalidInputf("supplier count must be positive, got %d", cmd.config.Suppliers)
	}
	if cmd.config.Points < 0 || cmd.config.Points > appservices.MaxDemoPoints {
		return entities.InvalidInputf("point count must be between 0 and %d, got %d", appservices.MaxDemoPoints, cmd.config.Points)
	}

	out := cmd.out()
	if cmd.config.Verbose {
		fmt.Fprintf(out, "🔧 Generating scenario with %d suppliers and %d timeline points\n",
			cmd.config.Suppliers, cmd.config.Points)
		fmt.Fprintf(out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := cmd.generateSuppliers(); err != nil {
		return fmt.Errorf("failed to generate suppliers: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cmd.generateTimeline(); err != nil {
		return fmt.Errorf("failed to generate timeline: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) generateSuppliers() error {
	rows := [][]string{{"supplier_id", "name", "price_per_unit", "lead_time_days", "reliability"}}
	for i := 0; i < cmd.config.Suppliers; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("S-%03d", 101+i),
			cmd.generateName(i),
			formatFixed(cmd.between(2, 8), 2),
			strconv.Itoa(int(cmd.between(1, 15))),
			formatFixed(cmd.between(0.8, 0.995), 3),
		})
	}
	return writeCSV(filepath.Join(cmd.config.OutputDir, "suppliers.csv"), rows)
}

func (cmd *GenerateCommand) generateTimeline() error {
	points := services.GenerateAnomalyTimeline(cmd.rng, cmd.config.Points)

	rows := [][]string{{"index", "demand", "delayed", "outlier"}}
	for _, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(p.Index),
			strconv.Itoa(p.Demand),
			strconv.FormatBool(p.Delayed),
			strconv.FormatBool(p.Outlier),
		})
	}
	return writeCSV(filepath.Join(cmd.config.OutputDir, "anomalies.csv"), rows)
}

func (cmd *GenerateCommand) generateName(i int) string {
	prefix := supplierNamePrefixes[i%len(supplierNamePrefixes)]
	suffix := supplierNameSuffixes[int(cmd.rng.Float64()*float64(len(supplierNameSuffixes)))]
	if round := i / len(supplierNamePrefixes); round > 0 {
		return fmt.Sprintf("%s %s %d", prefix, suffix, round+1)
	}
	return prefix + " " + suffix
}

func (cmd *GenerateCommand) out() io.Writer {
	if cmd.config.Out == nil {
		return os.Stdout
	}
	return cmd.config.Out
}

// between returns a value in [low, high)
func (cmd *GenerateCommand) between(low, high float64) float64 {
	return low + cmd.rng.Float64()*(high-low)
}

func formatFixed(v float64, places int) string {
	scale := math.Pow(10, float64(places))
	return strconv.FormatFloat(math.Floor(v*scale)/scale, 'f', -1, 64)
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Fprint(cmd.out(), `supplydesk generate - write a reproducible supplier table and anomaly timeline

USAGE:
    supplydesk generate -output <dir> [-suppliers <n>] [-n <points>] [-seed <n>]

OPTIONS:
    -output <dir>       Directory for suppliers.csv and anomalies.csv
    -suppliers <n>      Number of suppliers (default: 6)
    -n <points>         Timeline length (default: 60)
    -seed <n>           Random seed; 0 picks one from the clock
    -verbose            Enable verbose output

EXAMPLES:
    supplydesk generate -output scenarios/demo -seed 7
    supplydesk procure -demand 500 -suppliers scenarios/demo/suppliers.csv
    supplydesk anomalies -input scenarios/demo/anomalies.csv
`)
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/supplydesk/pkg/application/dto"
	"github.com/vsinha/supplydesk/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/supplydesk/pkg/interfaces/cli/output"
)

// DefaultDemoPoints is the size of a generated demo timeline
const DefaultDemoPoints = 60

// AnomaliesConfig holds configuration for the anomalies command
type AnomaliesConfig struct {
	Config
	// InputFile is an anomaly timeline CSV; empty generates a demo timeline
	InputFile string
	Points    int
}

// AnomaliesCommand classifies a timeline of demand points
type AnomaliesCommand struct {
	config AnomaliesConfig
}

// NewAnomaliesCommand creates a new anomalies command with the given configuration
func NewAnomaliesCommand(config AnomaliesConfig) *AnomaliesCommand {
	return &AnomaliesCommand{config: config}
}

// Execute runs the anomalies command
func (c *AnomaliesCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	return withRuntime(ctx, c.config.Config, func(rt *Runtime) error {
		out := c.config.out()
		start := time.Now()

		var (
			report *dto.AnomalyReport
			err    error
		)
		if c.config.InputFile != "" {
			if c.config.Verbose {
				fmt.Fprintf(out, "📂 Loading timeline from %s...\n", c.config.InputFile)
			}
			points, loadErr := csv.NewLoader().LoadAnomalyPoints(c.config.InputFile)
			if loadErr != nil {
				return fmt.Errorf("error loading timeline: %w", loadErr)
			}
			if c.config.Verbose {
				fmt.Fprintf(out, "✅ Loaded %d points\n", len(points))
			}
			report, err = rt.Service.ClassifyAnomalies(ctx, points)
		} else {
			n := c.config.Points
			if n == 0 {
				n = DefaultDemoPoints
			}
			if c.config.Verbose {
				fmt.Fprintf(out, "🎲 Generating demo timeline of %d points...\n", n)
			}
			report, err = rt.Service.DemoAnomalies(ctx, n)
		}
		if err != nil {
			return fmt.Errorf("error classifying anomalies: %w", err)
		}
		elapsed := time.Since(start)

		if c.config.Verbose {
			fmt.Fprintf(out, "✅ Classified %d points in %v\n\n", len(report.Points), elapsed)
		}
		return output.WriteAnomalyReport(report, c.config.outputConfig(elapsed))
	})
}

func (c *AnomaliesCommand) showHelp() {
	fmt.Fprint(c.config.out(), `supplydesk anomalies - classify delayed and outlier demand points

USAGE:
    supplydesk anomalies -input <file>     # Classify a timeline CSV
    supplydesk anomalies [-n <points>]     # Classify a generated demo timeline

OPTIONS:
    -input <file>       Timeline CSV with header index,demand,delayed,outlier
    -n <points>         Demo timeline size (default: 60)
`+commonHelp)
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/supplydesk/pkg/interfaces/cli/output"
)

// ForecastConfig holds configuration for the forecast command
type ForecastConfig struct {
	Config
	Identifier string
	Iteration  int
	Horizon    int
}

// ForecastCommand synthesizes a demand trajectory
type ForecastCommand struct {
	config ForecastConfig
}

// NewForecastCommand creates a new forecast command with the given configuration
func NewForecastCommand(config ForecastConfig) *ForecastCommand {
	return &ForecastCommand{config: config}
}

// Execute runs the forecast command
func (c *ForecastCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	return withRuntime(ctx, c.config.Config, func(rt *Runtime) error {
		out := c.config.out()
		if c.config.Verbose {
			fmt.Fprintf(out, "🔮 Synthesizing forecast for %s (iteration %d)\n", c.config.Identifier, c.config.Iteration)
		}

		start := time.Now()
		result, err := rt.Service.Forecast(ctx, c.config.Identifier, c.config.Iteration, c.config.Horizon)
		if err != nil {
			return fmt.Errorf("error synthesizing forecast: %w", err)
		}
		elapsed := time.Since(start)

		if c.config.Verbose {
			fmt.Fprintf(out, "✅ Forecast synthesized in %v\n\n", elapsed)
		}
		return output.WriteForecast(result, c.config.outputConfig(elapsed))
	})
}

func (c *ForecastCommand) showHelp() {
	fmt.Fprint(c.config.out(), `supplydesk forecast - synthesize a deterministic demand trajectory

USAGE:
    supplydesk forecast -id <identifier> [-iteration <n>] [-horizon <n>]

OPTIONS:
    -id <identifier>    Product or series identifier (may be empty)
    -iteration <n>      Iteration of the trajectory (default: 0)
    -horizon <n>        Number of points; 0 uses the configured default
`+commonHelp)
}

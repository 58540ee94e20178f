package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/interfaces/cli/commands"
)

// Command is implemented by every subcommand
type Command interface {
	Execute(ctx context.Context) error
}

const usage = `supplydesk - supply-chain decision engine

USAGE:
    supplydesk <command> [options]

COMMANDS:
    forecast     Synthesize a deterministic demand trajectory
    anomalies    Classify delayed and outlier demand points
    procure      Split a demand across suppliers by weighted score
    inventory    Fill demand from the cheapest suppliers within capacity
    events       Print the decision audit trail
    generate     Write a reproducible supplier table and anomaly timeline
    serve        Run the HTTP API

Run 'supplydesk <command> -help' for command options.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, err := parseCommand(os.Args[1], os.Args[2:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cmd == nil {
		fmt.Print(usage)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		if entities.IsInvalidInput(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// parseCommand builds the named subcommand from its flags. A nil command
// means the caller asked for the top-level usage.
func parseCommand(name string, args []string) (Command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	common := commands.Config{}

	bindCommon := func() {
		fs.StringVar(&common.ConfigFile, "config", "", "YAML configuration file")
		fs.StringVar(&common.OutputDir, "output", "", "Output directory for results (optional)")
		fs.StringVar(&common.Format, "format", "text", "Output format: text, json, csv")
		fs.BoolVar(&common.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&common.Help, "help", false, "Show help message")
	}

	switch name {
	case "forecast":
		config := commands.ForecastConfig{}
		bindCommon()
		fs.StringVar(&config.Identifier, "id", "", "Product or series identifier")
		fs.IntVar(&config.Iteration, "iteration", 0, "Iteration of the trajectory")
		fs.IntVar(&config.Horizon, "horizon", 0, "Number of points; 0 uses the configured default")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.Config = common
		return commands.NewForecastCommand(config), nil

	case "anomalies":
		config := commands.AnomaliesConfig{}
		bindCommon()
		fs.StringVar(&config.InputFile, "input", "", "Anomaly timeline CSV; omit for a demo timeline")
		fs.IntVar(&config.Points, "n", commands.DefaultDemoPoints, "Demo timeline size")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.Config = common
		return commands.NewAnomaliesCommand(config), nil

	case "procure", "inventory":
		config := commands.PlanConfig{}
		bindCommon()
		fs.StringVar(&config.SuppliersFile, "suppliers", "", "Supplier CSV; defaults to the built-in catalog")
		fs.Float64Var(&config.Demand, "demand", 0, "Quantity required")
		if name == "inventory" {
			fs.Float64Var(&config.Capacity, "capacity", 0, "Warehouse capacity")
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.Config = common
		if name == "procure" {
			return commands.NewProcureCommand(config), nil
		}
		return commands.NewInventoryCommand(config), nil

	case "events":
		config := commands.EventsConfig{}
		bindCommon()
		fs.IntVar(&config.From, "from", 0, "First global position to print")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.Config = common
		return commands.NewEventsCommand(config), nil

	case "generate":
		config := commands.GenerateConfig{}
		var seed uint
		fs.IntVar(&config.Suppliers, "suppliers", 6, "Number of suppliers")
		fs.IntVar(&config.Points, "n", commands.DefaultDemoPoints, "Timeline length")
		fs.StringVar(&config.OutputDir, "output", "scenario", "Output directory")
		fs.UintVar(&seed, "seed", 0, "Random seed; 0 picks one from the clock")
		fs.BoolVar(&config.Verbose, "verbose", false, "Enable verbose output")
		fs.BoolVar(&config.Help, "help", false, "Show help message")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.Seed = uint32(seed)
		return commands.NewGenerateCommand(config), nil

	case "serve":
		config := commands.ServeConfig{}
		bindCommon()
		fs.StringVar(&config.Addr, "addr", "", "Listen address; overrides server.addr")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		config.Config = common
		if !config.Verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		return commands.NewServeCommand(config), nil

	case "help", "-help", "--help", "-h":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command %q\n\n%s", name, usage)
	}
}

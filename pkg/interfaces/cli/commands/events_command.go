package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/supplydesk/pkg/interfaces/cli/output"
)

// EventsConfig holds configuration for the events command
type EventsConfig struct {
	Config
	From int
}

// EventsCommand prints the decision audit trail. Only the sqlite event backend
// keeps events between invocations.
type EventsCommand struct {
	config EventsConfig
}

// NewEventsCommand creates a new events command with the given configuration
func NewEventsCommand(config EventsConfig) *EventsCommand {
	return &EventsCommand{config: config}
}

// Execute runs the events command
func (c *EventsCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if c.config.From < 0 {
		return fmt.Errorf("from position cannot be negative, got %d", c.config.From)
	}

	return withRuntime(ctx, c.config.Config, func(rt *Runtime) error {
		trail, err := rt.Service.Events(ctx, c.config.From)
		if err != nil {
			return fmt.Errorf("error reading events: %w", err)
		}
		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "📜 Read %d events from %s store\n\n", len(trail), rt.Settings.Events.Backend)
		}
		return output.WriteEvents(trail, c.config.From, c.config.outputConfig(0))
	})
}

func (c *EventsCommand) showHelp() {
	fmt.Fprint(c.config.out(), `supplydesk events - print the decision audit trail

USAGE:
    supplydesk events [-from <position>]

OPTIONS:
    -from <position>    First global position to print (default: 0)
`+commonHelp)
}

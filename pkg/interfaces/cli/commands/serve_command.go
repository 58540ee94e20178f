package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/supplydesk/pkg/interfaces/api"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Config
	// Addr overrides the configured listen address when set
	Addr string
}

// ServeCommand exposes the decision service over HTTP
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command with the given configuration
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute runs the HTTP server until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	// Output format does not apply to the server.
	cfg := c.config.Config
	cfg.Format = "text"

	return withRuntime(ctx, cfg, func(rt *Runtime) error {
		settings := rt.Settings.Server
		addr := settings.Addr
		if c.config.Addr != "" {
			addr = c.config.Addr
		}

		handler := api.NewHandler(rt.Service, rt.Logger)
		router := api.NewRouter(handler, api.RouterOptions{
			Logger:    rt.Logger,
			RateLimit: settings.RateLimit,
			Burst:     settings.Burst,
			Gatherer:  rt.Registry,
		})

		if c.config.Verbose {
			fmt.Fprintf(c.config.out(), "🚀 supplydesk API listening on %s\n", addr)
		}

		server := api.NewServer(router, api.ServerOptions{
			Addr:         addr,
			ReadTimeout:  settings.ReadTimeout,
			WriteTimeout: settings.WriteTimeout,
		}, rt.Logger)
		return server.Run(ctx)
	})
}

func (c *ServeCommand) showHelp() {
	fmt.Fprint(c.config.out(), `supplydesk serve - run the HTTP API

USAGE:
    supplydesk serve [-addr <host:port>]

OPTIONS:
    -addr <host:port>   Listen address; overrides server.addr
    -config <file>      YAML configuration file
    -verbose            Enable verbose output
`)
}

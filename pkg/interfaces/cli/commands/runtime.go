package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/vsinha/supplydesk/pkg/application/services"
	"github.com/vsinha/supplydesk/pkg/config"
	"github.com/vsinha/supplydesk/pkg/infrastructure/cache"
	"github.com/vsinha/supplydesk/pkg/infrastructure/events"
	"github.com/vsinha/supplydesk/pkg/infrastructure/logging"
	"github.com/vsinha/supplydesk/pkg/infrastructure/metrics"
	"github.com/vsinha/supplydesk/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/supplydesk/pkg/interfaces/cli/output"
)

// redisConnectWait bounds how long a command waits for redis before giving up
const redisConnectWait = 10 * time.Second

// Config holds the flags shared by every command
type Config struct {
	ConfigFile string
	EnvFiles   []string
	OutputDir  string
	Format     string
	Verbose    bool
	Help       bool
	// Out receives command output; nil means stdout
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Config) outputConfig(elapsed time.Duration) output.Config {
	return output.Config{
		Format:    c.Format,
		OutputDir: c.OutputDir,
		Verbose:   c.Verbose,
		Elapsed:   elapsed,
		Out:       c.out(),
	}
}

// Runtime bundles a configured DecisionService with the resources it holds open
type Runtime struct {
	Settings *config.Config
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Service  *services.DecisionService

	closers []io.Closer
}

// NewRuntime loads configuration and assembles the decision service with the
// configured cache and event store backends
func NewRuntime(ctx context.Context, cfg Config) (_ *Runtime, err error) {
	envFiles := cfg.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	settings, err := config.Load(cfg.ConfigFile, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.Setup(settings.App.LogLevel, settings.App.LogFormat)

	rt := &Runtime{
		Settings: settings,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	recorder, err := metrics.NewRecorder(rt.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	resultCache, err := rt.openCache(ctx)
	if err != nil {
		return nil, err
	}

	store, err := rt.openEventStore()
	if err != nil {
		return nil, err
	}

	rt.Service = services.NewDecisionService(services.Dependencies{
		Suppliers:      memory.NewDemoSupplierRepository(),
		Cache:          resultCache,
		Events:         store,
		Metrics:        recorder,
		Logger:         &rt.Logger,
		DefaultHorizon: settings.Forecast.Horizon,
	})

	rt.Logger.Debug().
		Str("cache", settings.Cache.Backend).
		Str("events", settings.Events.Backend).
		Int("horizon", settings.Forecast.Horizon).
		Msg("runtime ready")

	return rt, nil
}

func (rt *Runtime) openCache(ctx context.Context) (cache.ResultCache, error) {
	settings := rt.Settings.Cache

	switch settings.Backend {
	case config.CacheMemory:
		return cache.NewMemoryCache(settings.MaxEntries, settings.TTL), nil
	case config.CacheRedis:
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:           settings.Redis.Addr,
			Password:       settings.Redis.Password,
			DB:             settings.Redis.DB,
			TTL:            settings.TTL,
			MaxConnectWait: redisConnectWait,
		}, rt.Logger)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, redisCache)
		return redisCache, nil
	default:
		return cache.NoopCache{}, nil
	}
}

func (rt *Runtime) openEventStore() (events.EventStore, error) {
	settings := rt.Settings.Events

	if settings.Backend != config.EventsSQLite {
		return events.NewInMemoryEventStore(rt.Logger), nil
	}

	store, err := events.NewSQLiteEventStore(settings.SQLitePath, rt.Logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, store)
	return store, nil
}

// Close releases every resource opened by NewRuntime
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// withRuntime runs fn against a fresh runtime and closes it afterwards
func withRuntime(ctx context.Context, cfg Config, fn func(rt *Runtime) error) error {
	if err := output.ValidateFormat(cfg.Format); err != nil {
		return err
	}

	rt, err := NewRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			rt.Logger.Warn().Err(err).Msg("failed to release resources")
		}
	}()

	return fn(rt)
}

const commonHelp = `    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Output directory for results (optional)
    -config <file>      YAML configuration file
    -verbose            Enable verbose output
`

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vsinha/supplydesk/pkg/application/dto"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/domain/repositories"
	"github.com/vsinha/supplydesk/pkg/domain/services"
	"github.com/vsinha/supplydesk/pkg/infrastructure/cache"
	"github.com/vsinha/supplydesk/pkg/infrastructure/events"
	"github.com/vsinha/supplydesk/pkg/infrastructure/metrics"
	"github.com/vsinha/supplydesk/pkg/infrastructure/repositories/memory"
)

// Operation names used for metrics, cache keys and logs
const (
	OpForecast    = "forecast"
	OpAnomalies   = "anomalies"
	OpDemo        = "anomalies_demo"
	OpProcurement = "procurement"
	OpInventory   = "inventory"
)

// MaxDemoPoints bounds the size of a generated demo timeline
const MaxDemoPoints = 10000

// Dependencies holds the collaborators of a DecisionService. Nil fields get
// working in-process defaults.
type Dependencies struct {
	Suppliers repositories.SupplierRepository
	Cache     cache.ResultCache
	Events    events.EventStore
	Metrics   *metrics.Recorder
	Logger    *zerolog.Logger
	// RandomSource supplies randomness for demo anomaly timelines
	RandomSource func() services.RandomSource
	// DefaultHorizon is used when a forecast request leaves the horizon at zero
	DefaultHorizon int
}

// DecisionService wraps the decision components with validation, caching,
// an audit trail, metrics and logging. It is safe for concurrent use.
type DecisionService struct {
	synthesizer *services.SeriesSynthesizer
	classifier  *services.AnomalyClassifier
	procurement *services.ProcurementAllocator
	inventory   *services.InventoryAllocator

	suppliers      repositories.SupplierRepository
	cache          cache.ResultCache
	events         events.EventStore
	metrics        *metrics.Recorder
	logger         zerolog.Logger
	randomSource   func() services.RandomSource
	defaultHorizon int
}

// NewDecisionService creates a new decision service
func NewDecisionService(deps Dependencies) *DecisionService {
	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	s := &DecisionService{
		synthesizer:    services.NewSeriesSynthesizer(),
		classifier:     services.NewAnomalyClassifier(),
		procurement:    services.NewProcurementAllocator(),
		inventory:      services.NewInventoryAllocator(),
		suppliers:      deps.Suppliers,
		cache:          deps.Cache,
		events:         deps.Events,
		metrics:        deps.Metrics,
		logger:         logger.With().Str("component", "decision_service").Logger(),
		randomSource:   deps.RandomSource,
		defaultHorizon: deps.DefaultHorizon,
	}

	if s.suppliers == nil {
		s.suppliers = memory.NewDemoSupplierRepository()
	}
	if s.cache == nil {
		s.cache = cache.NoopCache{}
	}
	if s.events == nil {
		s.events = events.NewInMemoryEventStore(logger)
	}
	if s.randomSource == nil {
		s.randomSource = func() services.RandomSource {
			return services.NewMulberry32(uint32(time.Now().UnixNano()))
		}
	}
	if s.defaultHorizon < 1 {
		s.defaultHorizon = services.DefaultHorizon
	}

	handler := &planWarningHandler{metrics: s.metrics, logger: s.logger}
	if _, err := s.events.Subscribe(planEventTypes, handler); err != nil {
		s.logger.Warn().Err(err).Msg("failed to subscribe plan warning handler")
	}
	return s
}

// Forecast synthesizes the trajectory for identifier at the given iteration. A zero
// horizon selects the configured default.
func (s *DecisionService) Forecast(ctx context.Context, identifier string, iteration, horizon int) (result *dto.ForecastResult, err error) {
	start := time.Now()
	defer func() { s.finish(OpForecast, start, err) }()

	if horizon == 0 {
		horizon = s.defaultHorizon
	}

	key, err := cache.Key(OpForecast, identifier, iteration, horizon)
	if err != nil {
		return nil, err
	}

	result = &dto.ForecastResult{}
	if !s.lookup(ctx, OpForecast, key, result) {
		points, err := s.synthesizer.Synthesize(identifier, iteration, horizon)
		if err != nil {
			return nil, err
		}
		result = &dto.ForecastResult{
			Identifier: identifier,
			Iteration:  iteration,
			Horizon:    horizon,
			Points:     points,
			Stats:      services.ComputeSeriesStats(points),
		}
		s.store(ctx, OpForecast, key, result)
	}

	s.record(ctx, events.NewForecastSynthesizedEvent(identifier, iteration, horizon, result.Stats))
	return result, nil
}

// ClassifyAnomalies validates and classifies a caller-supplied timeline
func (s *DecisionService) ClassifyAnomalies(ctx context.Context, points []entities.AnomalyPoint) (report *dto.AnomalyReport, err error) {
	start := time.Now()
	defer func() { s.finish(OpAnomalies, start, err) }()

	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}

	key, err := cache.Key(OpAnomalies, points)
	if err != nil {
		return nil, err
	}

	report = &dto.AnomalyReport{}
	if !s.lookup(ctx, OpAnomalies, key, report) {
		report = s.classify(points)
		s.store(ctx, OpAnomalies, key, report)
	}

	s.record(ctx, events.NewAnomaliesClassifiedEvent(len(report.Points), false, report.Summary))
	return report, nil
}

// DemoAnomalies generates and classifies a synthetic timeline of n points. Demo
// timelines are random and never cached.
func (s *DecisionService) DemoAnomalies(ctx context.Context, n int) (report *dto.AnomalyReport, err error) {
	start := time.Now()
	defer func() { s.finish(OpDemo, start, err) }()

	if n < 0 || n > MaxDemoPoints {
		return nil, entities.InvalidInputf("demo size must be within [0,%d], got %d", MaxDemoPoints, n)
	}

	report = s.classify(services.GenerateAnomalyTimeline(s.randomSource(), n))
	s.record(ctx, events.NewAnomaliesClassifiedEvent(n, true, report.Summary))
	return report, nil
}

func (s *DecisionService) classify(points []entities.AnomalyPoint) *dto.AnomalyReport {
	severities, summary := s.classifier.Classify(points)
	if points == nil {
		points = []entities.AnomalyPoint{}
	}
	return &dto.AnomalyReport{
		Points:     points,
		Severities: severities,
		Summary:    summary,
		Headline:   summary.OverallStatus.Headline(),
	}
}

// RecommendProcurement splits totalDemand across suppliers by score. A nil
// supplier list selects the catalog.
func (s *DecisionService) RecommendProcurement(ctx context.Context, totalDemand float64, suppliers []entities.Supplier) (plan *entities.AllocationPlan, err error) {
	start := time.Now()
	defer func() { s.finish(OpProcurement, start, err) }()

	suppliers, err = s.resolveSuppliers(ctx, suppliers)
	if err != nil {
		return nil, err
	}

	plan, err = s.allocate(ctx, OpProcurement, func() (entities.AllocationPlan, error) {
		return s.procurement.Allocate(totalDemand, suppliers)
	}, totalDemand, suppliers)
	if err != nil {
		return nil, err
	}

	s.record(ctx, events.NewProcurementPlannedEvent(totalDemand, *plan))
	return plan, nil
}

// OptimizeInventory fills min(demand, capacity) from the cheapest suppliers. A
// nil supplier list selects the catalog.
func (s *DecisionService) OptimizeInventory(ctx context.Context, demand, capacity float64, suppliers []entities.Supplier) (plan *entities.AllocationPlan, err error) {
	start := time.Now()
	defer func() { s.finish(OpInventory, start, err) }()

	suppliers, err = s.resolveSuppliers(ctx, suppliers)
	if err != nil {
		return nil, err
	}

	plan, err = s.allocate(ctx, OpInventory, func() (entities.AllocationPlan, error) {
		return s.inventory.Allocate(demand, capacity, suppliers)
	}, demand, capacity, suppliers)
	if err != nil {
		return nil, err
	}

	s.record(ctx, events.NewInventoryPlannedEvent(demand, capacity, *plan))
	return plan, nil
}

// Suppliers returns the supplier catalog
func (s *DecisionService) Suppliers(ctx context.Context) ([]entities.Supplier, error) {
	return s.suppliers.GetAllSuppliers(ctx)
}

// Events returns the decision audit trail from the given zero-based position
func (s *DecisionService) Events(ctx context.Context, fromPosition int) ([]events.Event, error) {
	return s.events.ReadAllEvents(ctx, fromPosition)
}

// resolveSuppliers selects the catalog only when no supplier list was given at
// all. An empty, non-nil list is passed through for the allocator to judge.
func (s *DecisionService) resolveSuppliers(ctx context.Context, suppliers []entities.Supplier) ([]entities.Supplier, error) {
	if suppliers != nil {
		return suppliers, nil
	}
	return s.suppliers.GetAllSuppliers(ctx)
}

func (s *DecisionService) allocate(
	ctx context.Context,
	operation string,
	compute func() (entities.AllocationPlan, error),
	inputs ...interface{},
) (*entities.AllocationPlan, error) {
	// NaN and ±Inf cannot be JSON-encoded into a key; let the allocator reject them.
	key, keyErr := cache.Key(operation, inputs...)

	plan := &entities.AllocationPlan{}
	if keyErr == nil && s.lookup(ctx, operation, key, plan) {
		return plan, nil
	}

	computed, err := compute()
	if err != nil {
		return nil, err
	}
	if keyErr == nil {
		s.store(ctx, operation, key, computed)
	}
	return &computed, nil
}

func (s *DecisionService) lookup(ctx context.Context, operation, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("cache lookup failed")
		return false
	}
	s.metrics.CacheLookup(operation, hit)
	return hit
}

func (s *DecisionService) store(ctx context.Context, operation, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("cache store failed")
	}
}

func (s *DecisionService) record(ctx context.Context, event events.Event) {
	if err := s.events.AppendEvent(ctx, event.StreamID(), event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", event.Type()).
			Msg("failed to record decision event")
	}
}

func (s *DecisionService) finish(operation string, start time.Time, err error) {
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case entities.IsInvalidInput(err):
		outcome = metrics.OutcomeInvalidInput
	default:
		outcome = metrics.OutcomeError
	}
	s.metrics.Observe(operation, outcome, elapsed)

	evt := s.logger.Debug()
	if err != nil {
		evt = s.logger.Warn().Err(err)
	}
	evt.Str("operation", operation).
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Msg("decision completed")
}

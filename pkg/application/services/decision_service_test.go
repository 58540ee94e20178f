package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/infrastructure/cache"
	"github.com/vsinha/supplydesk/pkg/infrastructure/events"
	"github.com/vsinha/supplydesk/pkg/infrastructure/metrics"
	"github.com/vsinha/supplydesk/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/supplydesk/pkg/infrastructure/testing"
)

type serviceFixture struct {
	service  *DecisionService
	registry *prometheus.Registry
}

func newServiceFixture(t *testing.T, deps Dependencies) serviceFixture {
	t.Helper()

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}
	deps.Metrics = recorder
	if deps.RandomSource == nil {
		deps.RandomSource = testhelpers.FixedRandomSource(testhelpers.AnomalyFixtureSeed)
	}

	return serviceFixture{service: NewDecisionService(deps), registry: registry}
}

// counterValue returns the value of the counter with exactly the given labels
func (f serviceFixture) counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := f.registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, labels map[string]string) bool {
	if len(m.GetLabel()) != len(labels) {
		return false
	}
	for _, pair := range m.GetLabel() {
		if labels[pair.GetName()] != pair.GetValue() {
			return false
		}
	}
	return true
}

func TestDecisionService_Forecast(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{})

	result, err := f.service.Forecast(ctx, "P-1001", 0, 0)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if result.Horizon != 40 || len(result.Points) != 40 {
		t.Fatalf("Expected default horizon of 40 points, got %d/%d", result.Horizon, len(result.Points))
	}
	if result.Points[0].Value != 96 || result.Points[39].Value != 141 {
		t.Errorf("Expected first/last values 96/141, got %d/%d", result.Points[0].Value, result.Points[39].Value)
	}
	if result.Stats.Last != 141 || result.Stats.Average != 113 || result.Stats.HistoryLength != 28 {
		t.Errorf("Unexpected stats: %+v", result.Stats)
	}

	short, err := f.service.Forecast(ctx, "P-1001", 0, 5)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(short.Points) != 5 {
		t.Errorf("Expected 5 points, got %d", len(short.Points))
	}
}

func TestDecisionService_ForecastUsesConfiguredHorizon(t *testing.T) {
	f := newServiceFixture(t, Dependencies{DefaultHorizon: 12})

	result, err := f.service.Forecast(context.Background(), "P-7", 2, 0)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(result.Points) != 12 {
		t.Errorf("Expected 12 points, got %d", len(result.Points))
	}
}

func TestDecisionService_ForecastCaching(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{Cache: cache.NewMemoryCache(16, 0)})

	first, err := f.service.Forecast(ctx, "P-1001", 0, 40)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	second, err := f.service.Forecast(ctx, "P-1001", 0, 40)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	for i := range first.Points {
		if first.Points[i] != second.Points[i] {
			t.Fatalf("point %d: cached %+v differs from computed %+v", i, second.Points[i], first.Points[i])
		}
	}

	hits := f.counterValue(t, "supplydesk_cache_lookups_total", map[string]string{"operation": OpForecast, "result": "hit"})
	misses := f.counterValue(t, "supplydesk_cache_lookups_total", map[string]string{"operation": OpForecast, "result": "miss"})
	if hits != 1 || misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %v hits and %v misses", hits, misses)
	}

	trail, _ := f.service.Events(ctx, 0)
	if len(trail) != 2 {
		t.Errorf("Expected an event per call, got %d", len(trail))
	}
}

func TestDecisionService_ForecastInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{})

	tests := []struct {
		name      string
		iteration int
		horizon   int
	}{
		{"negative_iteration", -1, 10},
		{"negative_horizon", 0, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Forecast(ctx, "P-1", tt.iteration, tt.horizon)
			if !errors.Is(err, entities.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}

	invalid := f.counterValue(t, "supplydesk_decisions_total", map[string]string{"operation": OpForecast, "outcome": metrics.OutcomeInvalidInput})
	if invalid != 2 {
		t.Errorf("Expected 2 invalid_input decisions, got %v", invalid)
	}

	trail, _ := f.service.Events(ctx, 0)
	if len(trail) != 0 {
		t.Errorf("Expected no events for rejected requests, got %d", len(trail))
	}
}

func TestDecisionService_ClassifyAnomalies(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{})

	report, err := f.service.ClassifyAnomalies(ctx, []entities.AnomalyPoint{
		{Index: 1, Demand: 100},
		{Index: 2, Demand: 210, Outlier: true},
		{Index: 3, Demand: 90, Delayed: true, Outlier: true},
	})
	if err != nil {
		t.Fatalf("ClassifyAnomalies failed: %v", err)
	}

	expected := []entities.Severity{entities.Normal, entities.Warning, entities.Critical}
	for i, want := range expected {
		if report.Severities[i] != want {
			t.Errorf("point %d: expected %s, got %s", i, want, report.Severities[i])
		}
	}
	if report.Summary.OverallStatus != entities.Critical || report.Headline != "Critical anomalies" {
		t.Errorf("Unexpected summary: %+v / %q", report.Summary, report.Headline)
	}
	if flagged := report.Flagged(); len(flagged) != 2 || flagged[0] != 1 || flagged[1] != 2 {
		t.Errorf("Expected flagged [1 2], got %v", flagged)
	}
}

func TestDecisionService_ClassifyAnomaliesEmptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{})

	report, err := f.service.ClassifyAnomalies(ctx, nil)
	if err != nil {
		t.Fatalf("ClassifyAnomalies failed: %v", err)
	}
	if report.Summary.OverallStatus != entities.Normal || report.Summary.Total() != 0 {
		t.Errorf("Expected empty normal summary, got %+v", report.Summary)
	}
	if report.Headline != "No anomalies detected" {
		t.Errorf("Unexpected headline %q", report.Headline)
	}

	_, err = f.service.ClassifyAnomalies(ctx, []entities.AnomalyPoint{
		{Index: 1, Demand: 10},
		{Index: 2, Demand: -5},
	})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "point 1: invalid input: demand cannot be negative, got -5" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestDecisionService_DemoAnomalies(t *testing.T) {
	ctx := context.Background()
	store := events.NewInMemoryEventStore(zerolog.Nop())
	f := newServiceFixture(t, Dependencies{Events: store})

	report, err := f.service.DemoAnomalies(ctx, 60)
	if err != nil {
		t.Fatalf("DemoAnomalies failed: %v", err)
	}

	counts := report.Summary.Counts
	if counts[entities.Normal] != 55 || counts[entities.Warning] != 4 || counts[entities.Critical] != 1 {
		t.Errorf("Expected 55/4/1, got %v", counts)
	}
	if report.Headline != "Critical anomalies" {
		t.Errorf("Unexpected headline %q", report.Headline)
	}

	trail, _ := store.ReadEvents(ctx, events.AnomalyStream, 1)
	if len(trail) != 1 {
		t.Fatalf("Expected 1 anomaly event, got %d", len(trail))
	}
	payload, ok := trail[0].Data().(events.AnomaliesClassified)
	if !ok || !payload.Demo || payload.Points != 60 {
		t.Errorf("Unexpected event payload: %+v", trail[0].Data())
	}

	for _, n := range []int{-1, MaxDemoPoints + 1} {
		if _, err := f.service.DemoAnomalies(ctx, n); !errors.Is(err, entities.ErrInvalidInput) {
			t.Errorf("DemoAnomalies(%d): expected ErrInvalidInput, got %v", n, err)
		}
	}
}

func TestDecisionService_RecommendProcurementFromCatalog(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{})

	plan, err := f.service.RecommendProcurement(ctx, 500, nil)
	if err != nil {
		t.Fatalf("RecommendProcurement failed: %v", err)
	}

	if plan.TotalQuantity != 500 {
		t.Errorf("Expected 500 units, got %d", plan.TotalQuantity)
	}
	if !plan.TotalCost.Equal(decimal.RequireFromString("2043.8")) {
		t.Errorf("Expected total cost 2043.80, got %s", plan.TotalCost)
	}
	if plan.Lines[0].SupplierName != "Alpha Supply" {
		t.Errorf("Expected catalog supplier names, got %q", plan.Lines[0].SupplierName)
	}
}

func TestDecisionService_RecommendProcurementExplicitSuppliers(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{Cache: cache.NewMemoryCache(16, 0)})

	suppliers := []entities.Supplier{
		testhelpers.MustCreateSupplier("X", "Xeno", 2, 1, 1),
		testhelpers.MustCreateSupplier("Y", "Ypsilon", 2, 1, 1),
	}

	plan, err := f.service.RecommendProcurement(ctx, 10, suppliers)
	if err != nil {
		t.Fatalf("RecommendProcurement failed: %v", err)
	}
	if len(plan.Lines) != 2 || plan.Lines[0].Quantity != 5 || plan.Lines[1].Quantity != 5 {
		t.Errorf("Expected an even 5/5 split, got %+v", plan.Lines)
	}

	plan.Lines[0].Quantity = 99
	again, err := f.service.RecommendProcurement(ctx, 10, suppliers)
	if err != nil {
		t.Fatalf("RecommendProcurement failed: %v", err)
	}
	if again.Lines[0].Quantity != 5 {
		t.Errorf("Expected cached plan to be isolated from caller mutation, got %d", again.Lines[0].Quantity)
	}
}

func TestDecisionService_RecommendProcurementEmptyCatalog(t *testing.T) {
	f := newServiceFixture(t, Dependencies{Suppliers: memory.NewSupplierRepository(0)})

	_, err := f.service.RecommendProcurement(context.Background(), 100, nil)
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDecisionService_RecommendProcurementExplicitEmptySuppliers(t *testing.T) {
	f := newServiceFixture(t, Dependencies{})

	_, err := f.service.RecommendProcurement(context.Background(), 100, []entities.Supplier{})
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for an explicit empty supplier list, got %v", err)
	}
}

func TestDecisionService_OptimizeInventoryExplicitEmptySuppliers(t *testing.T) {
	f := newServiceFixture(t, Dependencies{})

	plan, err := f.service.OptimizeInventory(context.Background(), 50, 100, []entities.Supplier{})
	if err != nil {
		t.Fatalf("OptimizeInventory failed: %v", err)
	}
	if len(plan.Lines) != 0 || plan.TotalQuantity != 0 || !plan.HasWarning(entities.UnderstockRisk) {
		t.Errorf("Expected an empty plan with UnderstockRisk, got %+v", plan)
	}
}

func TestDecisionService_WarningsCountedOnCacheHits(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{Cache: cache.NewMemoryCache(16, 0)})

	for i := 0; i < 3; i++ {
		if _, err := f.service.OptimizeInventory(ctx, 520, 480, nil); err != nil {
			t.Fatalf("OptimizeInventory failed: %v", err)
		}
	}

	hits := f.counterValue(t, "supplydesk_cache_lookups_total", map[string]string{"operation": OpInventory, "result": "hit"})
	if hits != 2 {
		t.Errorf("Expected 2 cache hits, got %v", hits)
	}
	warnings := f.counterValue(t, "supplydesk_plan_warnings_total", map[string]string{"operation": OpInventory, "code": "understock_risk"})
	if warnings != 3 {
		t.Errorf("Expected 3 recorded warnings, got %v", warnings)
	}
}

func TestDecisionService_OptimizeInventory(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, Dependencies{})

	plan, err := f.service.OptimizeInventory(ctx, 520, 480, nil)
	if err != nil {
		t.Fatalf("OptimizeInventory failed: %v", err)
	}

	if plan.TotalQuantity != 479 || !plan.HasWarning(entities.UnderstockRisk) {
		t.Errorf("Expected 479 units with UnderstockRisk, got %d %v", plan.TotalQuantity, plan.Warnings)
	}
	if !plan.TotalCost.Equal(decimal.RequireFromString("1776.1")) {
		t.Errorf("Expected total cost 1776.10, got %s", plan.TotalCost)
	}

	warnings := f.counterValue(t, "supplydesk_plan_warnings_total", map[string]string{"operation": OpInventory, "code": "understock_risk"})
	if warnings != 1 {
		t.Errorf("Expected 1 recorded warning, got %v", warnings)
	}

	_, err = f.service.OptimizeInventory(ctx, -1, 100, nil)
	if !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for negative demand, got %v", err)
	}
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, errors.New("cache unavailable")
}

func (failingCache) Set(ctx context.Context, key string, value interface{}) error {
	return errors.New("cache unavailable")
}

func (failingCache) Close() error { return nil }

func TestDecisionService_CacheFailuresDoNotFailDecisions(t *testing.T) {
	f := newServiceFixture(t, Dependencies{Cache: failingCache{}})

	plan, err := f.service.OptimizeInventory(context.Background(), 100, 1000, nil)
	if err != nil {
		t.Fatalf("Expected decision despite cache failure, got %v", err)
	}
	if plan.TotalQuantity != 99 {
		t.Errorf("Expected 99 units, got %d", plan.TotalQuantity)
	}
}

func TestDecisionService_Suppliers(t *testing.T) {
	f := newServiceFixture(t, Dependencies{})

	suppliers, err := f.service.Suppliers(context.Background())
	if err != nil {
		t.Fatalf("Suppliers failed: %v", err)
	}
	if len(suppliers) != len(testhelpers.DemoSuppliers()) {
		t.Errorf("Expected the demo catalog, got %d suppliers", len(suppliers))
	}
}


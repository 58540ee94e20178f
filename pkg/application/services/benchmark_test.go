package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/infrastructure/cache"
	testhelpers "github.com/vsinha/supplydesk/pkg/infrastructure/testing"
)

// Helper to create a decision service for benchmarks
func newTestDecisionServiceForBenchmark(resultCache cache.ResultCache) *DecisionService {
	return NewDecisionService(Dependencies{
		Cache:        resultCache,
		RandomSource: testhelpers.FixedRandomSource(testhelpers.AnomalyFixtureSeed),
	})
}

// setupWideCatalog builds n valid suppliers with distinct scores
func setupWideCatalog(n int) []entities.Supplier {
	suppliers := make([]entities.Supplier, n)
	for i := 0; i < n; i++ {
		suppliers[i] = testhelpers.MustCreateSupplier(
			fmt.Sprintf("S-%04d", i),
			fmt.Sprintf("Supplier %d", i),
			2+float64(i%50)/10,
			float64(1+i%14),
			0.8+float64(i%20)/100,
		)
	}
	return suppliers
}

func BenchmarkDecisionService_Forecast(b *testing.B) {
	ctx := context.Background()
	service := newTestDecisionServiceForBenchmark(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.Forecast(ctx, "P-1001", i, 0)
		if err != nil {
			b.Fatalf("Forecast failed: %v", err)
		}
	}
}

func BenchmarkDecisionService_ForecastCached(b *testing.B) {
	ctx := context.Background()
	service := newTestDecisionServiceForBenchmark(cache.NewMemoryCache(128, 0))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.Forecast(ctx, "P-1001", 0, 0)
		if err != nil {
			b.Fatalf("Forecast failed: %v", err)
		}
	}
}

func BenchmarkDecisionService_DemoAnomalies(b *testing.B) {
	ctx := context.Background()
	service := newTestDecisionServiceForBenchmark(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.DemoAnomalies(ctx, 1000)
		if err != nil {
			b.Fatalf("DemoAnomalies failed: %v", err)
		}
	}
}

func BenchmarkDecisionService_ProcurementWideCatalog(b *testing.B) {
	ctx := context.Background()
	service := newTestDecisionServiceForBenchmark(nil)
	suppliers := setupWideCatalog(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.RecommendProcurement(ctx, 100000, suppliers)
		if err != nil {
			b.Fatalf("RecommendProcurement failed: %v", err)
		}
	}
}

func BenchmarkDecisionService_InventoryWideCatalog(b *testing.B) {
	ctx := context.Background()
	service := newTestDecisionServiceForBenchmark(nil)
	suppliers := setupWideCatalog(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.OptimizeInventory(ctx, 100000, 80000, suppliers)
		if err != nil {
			b.Fatalf("OptimizeInventory failed: %v", err)
		}
	}
}

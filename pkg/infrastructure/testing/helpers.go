package testing

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/domain/services"
	"github.com/vsinha/supplydesk/pkg/infrastructure/repositories/memory"
)

// AnomalyFixtureSeed pins the demo timeline used across tests: 60 points with
// 55 normal, 4 warning and 1 critical
const AnomalyFixtureSeed = 7

// AnomalyFixture returns the pinned demo timeline
func AnomalyFixture() []entities.AnomalyPoint {
	return services.GenerateAnomalyTimeline(services.NewMulberry32(AnomalyFixtureSeed), 60)
}

// FixedRandomSource returns a factory that always yields a Mulberry32 seeded with seed
func FixedRandomSource(seed uint32) func() services.RandomSource {
	return func() services.RandomSource {
		return services.NewMulberry32(seed)
	}
}

// MustCreateSupplier is a helper for tests - panics on validation error
func MustCreateSupplier(id, name string, price, leadTime, reliability float64) entities.Supplier {
	supplier, err := entities.NewSupplier(entities.SupplierID(id), name, price, leadTime, reliability)
	if err != nil {
		panic(err)
	}
	return *supplier
}

// WriteSuppliersCSV writes suppliers to dir/suppliers.csv and returns the path
func WriteSuppliersCSV(t *testing.T, dir string, suppliers []entities.Supplier) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("supplier_id,name,price_per_unit,lead_time_days,reliability\n")
	for _, s := range suppliers {
		b.WriteString(strings.Join([]string{
			string(s.ID),
			s.Name,
			strconv.FormatFloat(s.PricePerUnit, 'f', -1, 64),
			strconv.FormatFloat(s.LeadTimeDays, 'f', -1, 64),
			strconv.FormatFloat(s.Reliability, 'f', -1, 64),
		}, ","))
		b.WriteString("\n")
	}

	path := filepath.Join(dir, "suppliers.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("Failed to write suppliers CSV: %v", err)
	}
	return path
}

// WriteAnomaliesCSV writes points to dir/anomalies.csv and returns the path
func WriteAnomaliesCSV(t *testing.T, dir string, points []entities.AnomalyPoint) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("index,demand,delayed,outlier\n")
	for _, p := range points {
		b.WriteString(strings.Join([]string{
			strconv.Itoa(p.Index),
			strconv.Itoa(p.Demand),
			strconv.FormatBool(p.Delayed),
			strconv.FormatBool(p.Outlier),
		}, ","))
		b.WriteString("\n")
	}

	path := filepath.Join(dir, "anomalies.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("Failed to write anomalies CSV: %v", err)
	}
	return path
}

// DemoSuppliers returns the catalog shipped with the service
func DemoSuppliers() []entities.Supplier {
	return memory.DemoSuppliers()
}

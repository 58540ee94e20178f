package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

var (
	supplierHeader = []string{"supplier_id", "name", "price_per_unit", "lead_time_days", "reliability"}
	anomalyHeader  = []string{"index", "demand", "delayed", "outlier"}
)

// Loader handles loading supplier tables and anomaly timelines from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSuppliers loads suppliers from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]entities.Supplier, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open suppliers file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSuppliers(file)
}

// ReadSuppliers parses a suppliers CSV stream
func (l *Loader) ReadSuppliers(r io.Reader) ([]entities.Supplier, error) {
	records, err := readRecords(r, "suppliers", supplierHeader)
	if err != nil {
		return nil, err
	}

	suppliers := make([]entities.Supplier, 0, len(records))
	for i, record := range records {
		supplier, err := parseSupplier(record)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		suppliers = append(suppliers, *supplier)
	}

	return suppliers, nil
}

// LoadAnomalyPoints loads an anomaly timeline from a CSV file
func (l *Loader) LoadAnomalyPoints(filename string) ([]entities.AnomalyPoint, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open anomalies file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadAnomalyPoints(file)
}

// ReadAnomalyPoints parses an anomaly timeline CSV stream
func (l *Loader) ReadAnomalyPoints(r io.Reader) ([]entities.AnomalyPoint, error) {
	records, err := readRecords(r, "anomalies", anomalyHeader)
	if err != nil {
		return nil, err
	}

	points := make([]entities.AnomalyPoint, 0, len(records))
	for i, record := range records {
		point, err := parseAnomalyPoint(record)
		if err != nil {
			return nil, fmt.Errorf("anomalies CSV row %d: %w", i+2, err)
		}
		points = append(points, *point)
	}

	return points, nil
}

// Helper functions for parsing CSV records

func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseSupplier(record []string) (*entities.Supplier, error) {
	id := entities.SupplierID(strings.TrimSpace(record[0]))
	name := strings.TrimSpace(record[1])

	price, err := parseFloat("price_per_unit", record[2])
	if err != nil {
		return nil, err
	}

	leadTime, err := parseFloat("lead_time_days", record[3])
	if err != nil {
		return nil, err
	}

	reliability, err := parseFloat("reliability", record[4])
	if err != nil {
		return nil, err
	}

	return entities.NewSupplier(id, name, price, leadTime, reliability)
}

func parseAnomalyPoint(record []string) (*entities.AnomalyPoint, error) {
	index, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid index: %s", record[0])
	}

	demand, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid demand: %s", record[1])
	}

	delayed, err := strconv.ParseBool(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid delayed flag: %s", record[2])
	}

	outlier, err := strconv.ParseBool(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid outlier flag: %s", record[3])
	}

	return entities.NewAnomalyPoint(index, demand, delayed, outlier)
}

func parseFloat(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, value)
	}
	return v, nil
}

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/supplydesk/pkg/application/dto"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
	// Out receives anything not written to OutputDir
	Out io.Writer
}

// ValidateFormat checks that format is one of the supported formats
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteForecast renders a synthesized trajectory
func WriteForecast(result *dto.ForecastResult, config Config) error {
	switch config.Format {
	case FormatText:
		return emitText(config, "forecast.txt", func(w io.Writer) {
			fmt.Fprintf(w, "📈 Forecast for %s (iteration %d)\n", result.Identifier, result.Iteration)
			fmt.Fprintf(w, "==============================\n\n")
			fmt.Fprintf(w, "Horizon: %d points (history %d, prediction %d)\n",
				result.Horizon, result.Stats.HistoryLength, result.Horizon-result.Stats.HistoryLength)
			fmt.Fprintf(w, "Last: %d  Average: %d  Confidence: ±%.0f%%\n",
				result.Stats.Last, result.Stats.Average, result.Stats.ConfidenceBand*100)
			if config.Elapsed > 0 {
				fmt.Fprintf(w, "Computed in: %v\n", config.Elapsed)
			}
			fmt.Fprintln(w)

			fmt.Fprintf(w, "%-6s %-8s %-10s %-10s %-10s\n", "Index", "Value", "Low", "High", "Segment")
			fmt.Fprintf(w, "%-6s %-8s %-10s %-10s %-10s\n", "------", "--------", "----------", "----------", "----------")
			for i, p := range result.Points {
				segment := "history"
				if i >= result.Stats.HistoryLength {
					segment = "predicted"
				}
				fmt.Fprintf(w, "%-6d %-8d %-10.2f %-10.2f %-10s\n", i, p.Value, p.Low, p.High, segment)
			}
		})
	case FormatJSON:
		return emitJSON(config, "forecast.json", result)
	case FormatCSV:
		rows := [][]string{{"index", "value", "low", "high"}}
		for i, p := range result.Points {
			rows = append(rows, []string{
				strconv.Itoa(i),
				strconv.Itoa(p.Value),
				formatFloat(p.Low),
				formatFloat(p.High),
			})
		}
		return emitCSV(config, "forecast.csv", rows)
	default:
		return ValidateFormat(config.Format)
	}
}

// WriteAnomalyReport renders a classified timeline
func WriteAnomalyReport(report *dto.AnomalyReport, config Config) error {
	switch config.Format {
	case FormatText:
		return emitText(config, "anomalies.txt", func(w io.Writer) {
			fmt.Fprintf(w, "%s %s\n", statusIcon(report.Summary.OverallStatus), report.Headline)
			fmt.Fprintf(w, "==============================\n\n")
			fmt.Fprintf(w, "Points: %d\n", len(report.Points))
			for _, severity := range entities.Severities {
				fmt.Fprintf(w, "  %-9s %d\n", severity.String()+":", report.Summary.Counts[severity])
			}
			fmt.Fprintln(w)

			flagged := report.Flagged()
			if len(flagged) == 0 {
				return
			}
			fmt.Fprintf(w, "⚠️  Flagged points:\n")
			fmt.Fprintf(w, "%-6s %-8s %-8s %-8s %-10s\n", "Index", "Demand", "Delayed", "Outlier", "Severity")
			fmt.Fprintf(w, "%-6s %-8s %-8s %-8s %-10s\n", "------", "--------", "--------", "--------", "----------")
			for _, i := range flagged {
				p := report.Points[i]
				fmt.Fprintf(w, "%-6d %-8d %-8t %-8t %-10s\n", p.Index, p.Demand, p.Delayed, p.Outlier, report.Severities[i])
			}
		})
	case FormatJSON:
		return emitJSON(config, "anomalies.json", report)
	case FormatCSV:
		rows := [][]string{{"index", "demand", "delayed", "outlier", "severity"}}
		for i, p := range report.Points {
			rows = append(rows, []string{
				strconv.Itoa(p.Index),
				strconv.Itoa(p.Demand),
				strconv.FormatBool(p.Delayed),
				strconv.FormatBool(p.Outlier),
				report.Severities[i].String(),
			})
		}
		return emitCSV(config, "anomalies.csv", rows)
	default:
		return ValidateFormat(config.Format)
	}
}

// WritePlan renders an allocation plan under the given title
func WritePlan(title string, plan *entities.AllocationPlan, config Config) error {
	switch config.Format {
	case FormatText:
		return emitText(config, "plan.txt", func(w io.Writer) {
			fmt.Fprintf(w, "📦 %s\n", title)
			fmt.Fprintf(w, "==============================\n\n")
			fmt.Fprintf(w, "%-8s %-18s %-8s %-10s %-12s\n", "Supplier", "Name", "Price", "Quantity", "Cost")
			fmt.Fprintf(w, "%-8s %-18s %-8s %-10s %-12s\n", "--------", "------------------", "--------", "----------", "------------")
			for _, line := range plan.Lines {
				fmt.Fprintf(w, "%-8s %-18s %-8.2f %-10d %-12s\n",
					line.SupplierID, line.SupplierName, line.PricePerUnit, line.Quantity, line.Cost.StringFixed(2))
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Total quantity: %d\n", plan.TotalQuantity)
			fmt.Fprintf(w, "Total cost: %s\n", plan.TotalCost.StringFixed(2))
			if config.Elapsed > 0 {
				fmt.Fprintf(w, "Computed in: %v\n", config.Elapsed)
			}

			if len(plan.Warnings) > 0 {
				fmt.Fprintln(w)
				for _, warning := range plan.Warnings {
					fmt.Fprintf(w, "⚠️  %s\n", warning.Message())
				}
			}
		})
	case FormatJSON:
		return emitJSON(config, "plan.json", plan)
	case FormatCSV:
		rows := [][]string{{"supplier_id", "name", "price_per_unit", "quantity", "cost"}}
		for _, line := range plan.Lines {
			rows = append(rows, []string{
				string(line.SupplierID),
				line.SupplierName,
				formatFloat(line.PricePerUnit),
				strconv.FormatInt(int64(line.Quantity), 10),
				line.Cost.StringFixed(2),
			})
		}
		return emitCSV(config, "plan.csv", rows)
	default:
		return ValidateFormat(config.Format)
	}
}

func statusIcon(s entities.Severity) string {
	switch s {
	case entities.Critical:
		return "🚨"
	case entities.Warning:
		return "⚠️ "
	default:
		return "✅"
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writer(config Config) io.Writer {
	if config.Out == nil {
		return os.Stdout
	}
	return config.Out
}

// emitText always prints to Out and also saves a copy when OutputDir is set
func emitText(config Config, name string, render func(w io.Writer)) error {
	render(writer(config))

	if config.OutputDir == "" {
		return nil
	}
	return saveFile(config, name, func(f io.Writer) error {
		render(f)
		return nil
	})
}

func emitJSON(config Config, name string, value interface{}) error {
	jsonData, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(writer(config), string(jsonData))
		return nil
	}
	return saveFile(config, name, func(f io.Writer) error {
		_, err := f.Write(append(jsonData, '\n'))
		return err
	})
}

func emitCSV(config Config, name string, rows [][]string) error {
	write := func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	}

	if config.OutputDir == "" {
		return write(writer(config))
	}
	return saveFile(config, name, write)
}

func saveFile(config Config, name string, write func(io.Writer) error) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, name)
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}

	if config.Verbose {
		fmt.Fprintf(writer(config), "💾 Results saved to: %s\n", filename)
	}
	return nil
}

package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vsinha/supplydesk/pkg/infrastructure/events"
)

type eventRecord struct {
	Position  int         `json:"position"`
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Stream    string      `json:"stream"`
	Version   int         `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// WriteEvents renders an audit trail whose first event sits at firstPosition
func WriteEvents(trail []events.Event, firstPosition int, config Config) error {
	records := make([]eventRecord, len(trail))
	for i, e := range trail {
		records[i] = eventRecord{
			Position:  firstPosition + i,
			ID:        e.ID(),
			Type:      e.Type(),
			Stream:    e.StreamID(),
			Version:   e.Version(),
			Timestamp: e.Timestamp(),
			Data:      e.Data(),
		}
	}

	switch config.Format {
	case FormatText:
		return emitText(config, "events.txt", func(w io.Writer) {
			fmt.Fprintf(w, "🧾 Decision audit trail\n")
			fmt.Fprintf(w, "==============================\n\n")
			if len(records) == 0 {
				fmt.Fprintf(w, "No events recorded\n")
				return
			}
			fmt.Fprintf(w, "%-8s %-22s %-12s %-8s %-30s\n", "Position", "Type", "Stream", "Version", "Recorded")
			fmt.Fprintf(w, "%-8s %-22s %-12s %-8s %-30s\n", "--------", "----------------------", "------------", "--------", "------------------------------")
			for _, r := range records {
				fmt.Fprintf(w, "%-8d %-22s %-12s %-8d %-30s\n",
					r.Position, r.Type, r.Stream, r.Version, r.Timestamp.Format(time.RFC3339))
			}
		})
	case FormatJSON:
		return emitJSON(config, "events.json", records)
	case FormatCSV:
		rows := [][]string{{"position", "id", "type", "stream", "version", "timestamp"}}
		for _, r := range records {
			rows = append(rows, []string{
				strconv.Itoa(r.Position),
				r.ID,
				r.Type,
				r.Stream,
				strconv.Itoa(r.Version),
				r.Timestamp.Format(time.RFC3339Nano),
			})
		}
		return emitCSV(config, "events.csv", rows)
	default:
		return ValidateFormat(config.Format)
	}
}

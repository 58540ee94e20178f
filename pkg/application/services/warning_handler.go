package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
	"github.com/vsinha/supplydesk/pkg/infrastructure/events"
	"github.com/vsinha/supplydesk/pkg/infrastructure/metrics"
)

// planWarningHandler counts and logs the risk warnings carried by every
// recorded allocation plan, cached or freshly computed
type planWarningHandler struct {
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

var planEventTypes = []string{events.ProcurementPlannedEvent, events.InventoryPlannedEvent}

func (h *planWarningHandler) CanHandle(eventType string) bool {
	return eventType == events.ProcurementPlannedEvent || eventType == events.InventoryPlannedEvent
}

func (h *planWarningHandler) Handle(event events.Event) error {
	var (
		operation string
		plan      entities.AllocationPlan
	)
	switch data := event.Data().(type) {
	case events.ProcurementPlanned:
		operation, plan = OpProcurement, data.Plan
	case events.InventoryPlanned:
		operation, plan = OpInventory, data.Plan
	default:
		return fmt.Errorf("unexpected payload %T for %s", event.Data(), event.Type())
	}

	for _, w := range plan.Warnings {
		h.metrics.Warning(operation, string(w))
		h.logger.Info().
			Str("operation", operation).
			Str("warning", string(w)).
			Int64("total_quantity", int64(plan.TotalQuantity)).
			Msg(w.Message())
	}
	return nil
}

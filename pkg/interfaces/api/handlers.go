package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vsinha/supplydesk/pkg/application/services"
	"github.com/vsinha/supplydesk/pkg/domain/entities"
)

// DefaultDemoPoints is the demo timeline length when the request does not set n
const DefaultDemoPoints = 60

// Handler serves the decision endpoints
type Handler struct {
	service *services.DecisionService
	logger  zerolog.Logger
}

// NewHandler creates a new handler
func NewHandler(service *services.DecisionService, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Health reports liveness
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Forecast synthesizes a demand trajectory
// POST /api/v1/forecasts
func (h *Handler) Forecast(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Forecast(c.Request.Context(), req.Identifier, req.Iteration, req.Horizon)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClassifyAnomalies classifies a caller-supplied timeline
// POST /api/v1/anomalies/classify
func (h *Handler) ClassifyAnomalies(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.ClassifyAnomalies(c.Request.Context(), req.Points)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromAnomalyReport(report))
}

// DemoAnomalies classifies a freshly generated demo timeline
// GET /api/v1/anomalies/demo?n=60
func (h *Handler) DemoAnomalies(c *gin.Context) {
	n := DefaultDemoPoints
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}

	report, err := h.service.DemoAnomalies(c.Request.Context(), n)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromAnomalyReport(report))
}

// PlanProcurement splits demand across suppliers by score
// POST /api/v1/procurement/plan
func (h *Handler) PlanProcurement(c *gin.Context) {
	var req ProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.RecommendProcurement(c.Request.Context(), *req.TotalDemand, req.Suppliers)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromPlan(plan))
}

// PlanInventory fills demand from the cheapest suppliers within capacity
// POST /api/v1/inventory/plan
func (h *Handler) PlanInventory(c *gin.Context) {
	var req InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.OptimizeInventory(c.Request.Context(), *req.Demand, *req.Capacity, req.Suppliers)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromPlan(plan))
}

// ListSuppliers returns the supplier catalog
// GET /api/v1/suppliers
func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.service.Suppliers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

// ListEvents returns the decision audit trail
// GET /api/v1/events?from=0
func (h *Handler) ListEvents(c *gin.Context) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		abortWithError(c, http.StatusBadRequest, "from must be a non-negative integer")
		return
	}

	trail, err := h.service.Events(c.Request.Context(), from)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": FromEvents(trail, from)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if entities.IsInvalidInput(err) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error().
		Err(err).
		Str("request_id", c.GetString(requestIDKey)).
		Msg("request failed")
	abortWithError(c, http.StatusInternalServerError, "internal server error")
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	Logger zerolog.Logger
	// RateLimit is the sustained requests per second allowed on /api/v1
	RateLimit float64
	Burst     int
	// Gatherer backs /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
}

// NewRouter wires the handler into a gin engine
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()

	r.Use(RequestID())
	r.Use(Recovery(opts.Logger))
	r.Use(AccessLog(opts.Logger))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		v1.Use(RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}
	{
		v1.POST("/forecasts", handler.Forecast)

		anomalies := v1.Group("/anomalies")
		{
			anomalies.POST("/classify", handler.ClassifyAnomalies)
			anomalies.GET("/demo", handler.DemoAnomalies)
		}

		v1.POST("/procurement/plan", handler.PlanProcurement)
		v1.POST("/inventory/plan", handler.PlanInventory)
		v1.GET("/suppliers", handler.ListSuppliers)
		v1.GET("/events", handler.ListEvents)
	}

	return r
}

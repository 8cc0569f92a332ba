package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-registration-api/internal/dto"
	"github.com/noah-isme/sma-registration-api/internal/service"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/sheets"
)

type storeSource interface {
	Store(ctx context.Context) (sheets.Store, error)
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	stores  storeSource
}

// NewMetricsHandler constructs a metrics handler. stores backs the readiness
// probe and may be nil.
func NewMetricsHandler(metrics *service.MetricsService, stores storeSource) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, stores: stores}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the sheet store client can be obtained.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.stores != nil {
		if _, err := h.stores.Store(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.ReadinessResponse{Status: "unavailable", Error: appErrors.FromError(err).Message})
			return
		}
	}
	c.JSON(http.StatusOK, dto.ReadinessResponse{Status: "ready"})
}

package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the registration API. prefix is prepended to the
// form endpoints only; probes and metrics stay at the root.
func RegisterRoutes(r *gin.Engine, prefix string, registrations *RegistrationHandler, metrics *MetricsHandler) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(registrations.MethodNotAllowed)

	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
	r.GET("/metrics", metrics.Prometheus)

	api := r.Group(prefix)
	api.POST("/submit", registrations.Submit)
	api.GET("/setup-sheet", registrations.SetupSheet)
	api.POST("/setup-sheet", registrations.SetupSheet)
}

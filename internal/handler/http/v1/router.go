package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check доступен без ключа
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("")
	protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))

	protected.POST("/location", h.updateLocation)
	protected.GET("/occupancy", h.getOccupancy)

	zones := protected.Group("/zones")
	{
		zones.GET("", h.listZones)
		zones.GET("/current", h.getCurrentZone)
	}

	alerts := protected.Group("/alerts")
	{
		alerts.GET("", h.listActiveAlerts)
		alerts.GET("/history", h.alertHistory)
		alerts.GET("/stream", h.streamAlerts)
		alerts.POST("/:id/ack", h.acknowledgeAlert)
	}

	protected.POST("/alarm/playback-ended", h.playbackEnded)
}

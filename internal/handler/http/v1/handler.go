package v1

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/danger_zone_alerts/internal/config"
	"github.com/shenikar/danger_zone_alerts/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	streamBuffer      = 16
	streamKeepAlive   = 15 * time.Second
	errEngineDown     = "zone engine unavailable"
	errInternalServer = "internal server error"
)

type Handler struct {
	monitor  service.ZoneMonitor
	history  service.AlertHistory
	logger   *logrus.Logger
	validate *validator.Validate
	cfg      *config.Config
}

func NewHandler(monitor service.ZoneMonitor, history service.AlertHistory, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		monitor:  monitor,
		history:  history,
		logger:   logger,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// @Summary Report observer location
// @Description Push a location sample of the observer into the zone engine. Requires API key.
// @Tags Location
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param location body LocationRequest true "Location sample"
// @Success 200 {object} LocationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /location [post]
func (h *Handler) updateLocation(c *gin.Context) {
	var input LocationRequest
	log := h.logger.WithField("method", "updateLocation")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next, accepted, err := h.monitor.UpdateObserverLocation(c.Request.Context(), *input.Latitude, *input.Longitude)
	if err != nil {
		log.WithError(err).Error("Failed to update observer location")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	c.JSON(http.StatusOK, LocationResponse{Accepted: accepted, NextIntervalMs: next.Milliseconds()})
}

// @Summary Get current zone
// @Description Get the danger zone the observer is inside. Requires API key.
// @Tags Zones
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ZoneResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Observer is not inside a zone"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /zones/current [get]
func (h *Handler) getCurrentZone(c *gin.Context) {
	zone, ok, err := h.monitor.GetCurrentZone(c.Request.Context())
	if err != nil {
		h.logger.WithField("method", "getCurrentZone").WithError(err).Error("Failed to get current zone")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "observer is not inside a danger zone"})
		return
	}
	c.JSON(http.StatusOK, ModelToZoneResponse(zone))
}

// @Summary List danger zones
// @Description Get the live danger zone set. Requires API key.
// @Tags Zones
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} ZoneResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /zones [get]
func (h *Handler) listZones(c *gin.Context) {
	zones, err := h.monitor.GetZones(c.Request.Context())
	if err != nil {
		h.logger.WithField("method", "listZones").WithError(err).Error("Failed to list zones")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	c.JSON(http.StatusOK, ModelsToZoneResponses(zones))
}

// @Summary List active alerts
// @Description Get alerts that have not been acknowledged. Requires API key.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} AlertResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /alerts [get]
func (h *Handler) listActiveAlerts(c *gin.Context) {
	alerts, err := h.monitor.GetActiveAlerts(c.Request.Context())
	if err != nil {
		h.logger.WithField("method", "listActiveAlerts").WithError(err).Error("Failed to list active alerts")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
}

// @Summary Alert history
// @Description Get persisted alerts, newest first. Requires API key.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Number of alerts" default(50)
// @Success 200 {array} AlertResponse
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/history [get]
func (h *Handler) alertHistory(c *gin.Context) {
	log := h.logger.WithField("method", "alertHistory")
	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.history.History(c.Request.Context(), query.Limit)
	if err != nil {
		log.WithError(err).Error("Failed to load alert history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(events))
}

// @Summary Acknowledge an alert
// @Description Acknowledge an active alert. The alarm keeps running; only the visual entry alert is suppressed until the observer leaves the zone. Requires API key.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid alert ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Alert not active"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /alerts/{id}/ack [post]
func (h *Handler) acknowledgeAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert ID"})
		return
	}
	log := h.logger.WithField("method", "acknowledgeAlert").WithField("id", id)

	found, err := h.monitor.AcknowledgeAlert(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("Failed to acknowledge alert")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Alarm playback ended
// @Description Signal that the alarm sound finished so the engine can restart it while the observer is inside. Requires API key.
// @Tags Alarm
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} PlaybackEndedResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /alarm/playback-ended [post]
func (h *Handler) playbackEnded(c *gin.Context) {
	restarted, err := h.monitor.PlaybackEnded(c.Request.Context())
	if err != nil {
		h.logger.WithField("method", "playbackEnded").WithError(err).Error("Failed to handle playback end")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	c.JSON(http.StatusOK, PlaybackEndedResponse{Restarted: restarted})
}

// @Summary Get occupancy state
// @Description Get the observer's zone occupancy state. Requires API key.
// @Tags Zones
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} OccupancyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Zone engine unavailable"
// @Router /occupancy [get]
func (h *Handler) getOccupancy(c *gin.Context) {
	state, err := h.monitor.GetOccupancy(c.Request.Context())
	if err != nil {
		h.logger.WithField("method", "getOccupancy").WithError(err).Error("Failed to get occupancy")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errEngineDown})
		return
	}
	c.JSON(http.StatusOK, ModelToOccupancyResponse(state))
}

// @Summary Stream alerts
// @Description Server-Sent Events stream of alert events. Requires API key.
// @Tags Alerts
// @Produce text/event-stream
// @Security ApiKeyAuth
// @Success 200 {object} AlertResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /alerts/stream [get]
func (h *Handler) streamAlerts(c *gin.Context) {
	events, cancel := h.monitor.SubscribeAlerts(streamBuffer)
	defer cancel()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	h.logger.WithField("method", "streamAlerts").Debug("Alert stream opened")
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), ModelToAlertResponse(event))
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{})
			return true
		}
	})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

// LocationRequest DTO отметки местоположения наблюдателя
// @Description DTO отметки местоположения наблюдателя
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// LocationResponse DTO ответа на отметку местоположения
// @Description DTO ответа на отметку местоположения
type LocationResponse struct {
	Accepted       bool  `json:"accepted"`
	NextIntervalMs int64 `json:"next_interval_ms"`
}

// HistoryQuery параметры запроса журнала оповещений
type HistoryQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

// ZoneResponse DTO опасной зоны
// @Description DTO опасной зоны
type ZoneResponse struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Type             string               `json:"type"`
	Latitude         float64              `json:"latitude"`
	Longitude        float64              `json:"longitude"`
	Polygon          []LocationDTO        `json:"polygon"`
	RadiusMeters     float64              `json:"radius_meters"`
	RiskLevel        int                  `json:"risk_level"`
	Level            models.Level         `json:"level"`
	CurrentSeverity  float64              `json:"current_severity"`
	SoundEnabled     bool                 `json:"sound_enabled"`
	VibrationEnabled bool                 `json:"vibration_enabled"`
	PushEnabled      bool                 `json:"push_enabled"`
	VibrationMs      []int64              `json:"vibration_pattern_ms"`
	TimeBasedRisk    models.TimeBasedRisk `json:"time_based_risk"`
	CreatedAt        time.Time            `json:"created_at"`
	EvaluatedAt      time.Time            `json:"evaluated_at"`
}

// LocationDTO координаты точки
type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AlertResponse DTO оповещения
// @Description DTO оповещения
type AlertResponse struct {
	ID              uuid.UUID        `json:"id"`
	Kind            models.AlertKind `json:"kind"`
	ZoneID          uuid.UUID        `json:"zone_id"`
	ZoneName        string           `json:"zone_name"`
	RiskLevel       int              `json:"risk_level"`
	Level           models.Level     `json:"level"`
	Message         string           `json:"message"`
	Recommendations []string         `json:"recommendations"`
	Timestamp       time.Time        `json:"timestamp"`
	Location        *LocationDTO     `json:"location,omitempty"`
}

// OccupancyResponse DTO состояния нахождения в зоне
// @Description DTO состояния нахождения в зоне
type OccupancyResponse struct {
	Phase          models.OccupancyPhase `json:"phase"`
	CurrentZoneID  *uuid.UUID            `json:"current_zone_id,omitempty"`
	PreviousZoneID *uuid.UUID            `json:"previous_zone_id,omitempty"`
	EnteredAt      *time.Time            `json:"entered_at,omitempty"`
	Acknowledged   bool                  `json:"acknowledged"`
	AlarmActive    bool                  `json:"alarm_active"`
}

// PlaybackEndedResponse DTO ответа на окончание воспроизведения
type PlaybackEndedResponse struct {
	Restarted bool `json:"restarted"`
}

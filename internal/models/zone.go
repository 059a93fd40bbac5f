package models

import (
	"time"

	"github.com/google/uuid"
)

// Level - четырёхуровневая классификация опасности зоны
type Level string

const (
	LevelSafe    Level = "safe"
	LevelNeutral Level = "neutral"
	LevelCaution Level = "caution"
	LevelDanger  Level = "danger"
)

// TimeBasedRisk - весовые коэффициенты опасности по времени суток и дню недели.
// Morning..Night задаются в шкале тяжести 0-10, Weekend и Weekday - множители.
type TimeBasedRisk struct {
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Evening   float64 `json:"evening"`
	Night     float64 `json:"night"`
	Weekend   float64 `json:"weekend"`
	Weekday   float64 `json:"weekday"`
}

// AlertSettings - параметры оповещения, вычисляемые из RiskLevel
type AlertSettings struct {
	SoundEnabled     bool            `json:"sound_enabled"`
	VibrationEnabled bool            `json:"vibration_enabled"`
	PushEnabled      bool            `json:"push_enabled"`
	VibrationPattern []time.Duration `json:"vibration_pattern"`
	AlertThreshold   float64         `json:"alert_threshold"`
}

// DangerZone - опасная зона, построенная из одного инцидента
type DangerZone struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	Center          Location      `json:"center"`
	Polygon         []Location    `json:"polygon"`
	RadiusMeters    float64       `json:"radius_meters"`
	RiskLevel       int           `json:"risk_level"`
	Level           Level         `json:"level"`
	CurrentSeverity float64       `json:"current_severity"`
	TimeBasedRisk   TimeBasedRisk `json:"time_based_risk"`
	AlertSettings   AlertSettings `json:"alert_settings"`
	CreatedAt       time.Time     `json:"created_at"`
	EvaluatedAt     time.Time     `json:"evaluated_at"`
}

// OccupancyPhase - состояние машины переходов между зонами
type OccupancyPhase string

const (
	PhaseOutside              OccupancyPhase = "outside"
	PhaseInsideUnacknowledged OccupancyPhase = "inside_unacknowledged"
	PhaseInsideAcknowledged   OccupancyPhase = "inside_acknowledged"
)

// ZoneOccupancyState - состояние нахождения наблюдателя в зоне
type ZoneOccupancyState struct {
	CurrentZoneID  *uuid.UUID `json:"current_zone_id,omitempty"`
	PreviousZoneID *uuid.UUID `json:"previous_zone_id,omitempty"`
	EnteredAt      time.Time  `json:"entered_at"`
	Acknowledged   bool       `json:"acknowledged"`
	AlarmActive    bool       `json:"alarm_active"`
}

// Phase возвращает текущую фазу автомата
func (s ZoneOccupancyState) Phase() OccupancyPhase {
	switch {
	case s.CurrentZoneID == nil:
		return PhaseOutside
	case s.Acknowledged:
		return PhaseInsideAcknowledged
	default:
		return PhaseInsideUnacknowledged
	}
}

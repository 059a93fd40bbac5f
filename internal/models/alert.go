package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind - тип события оповещения
type AlertKind string

const (
	AlertEntry       AlertKind = "entry"
	AlertExit        AlertKind = "exit"
	AlertLevelChange AlertKind = "level_change"
	AlertNearby      AlertKind = "nearby"
)

// AlertEvent - неизменяемая запись журнала оповещений
type AlertEvent struct {
	ID              uuid.UUID `json:"id"`
	Kind            AlertKind `json:"kind"`
	ZoneID          uuid.UUID `json:"zone_id"`
	ZoneName        string    `json:"zone_name"`
	RiskLevel       int       `json:"risk_level"`
	Level           Level     `json:"level"`
	Message         string    `json:"message"`
	Recommendations []string  `json:"recommendations"`
	Timestamp       time.Time `json:"timestamp"`
	Location        *Location `json:"location,omitempty"`
}

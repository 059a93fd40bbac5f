package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident - подтверждённое сообщение об инциденте от внешнего источника.
// RiskLevel и устаревшее поле Level могут отсутствовать, каноничный уровень
// вычисляет zone.NormalizeRiskLevel.
type Incident struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	LocationLabel string    `json:"location_label"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	RiskLevel     *int      `json:"risk_level,omitempty"`
	Level         *int      `json:"level,omitempty"`
	Validated     bool      `json:"validated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Location возвращает точку инцидента; ok=false, если координаты не заданы
func (i Incident) Location() (Location, bool) {
	if i.Latitude == nil || i.Longitude == nil {
		return Location{}, false
	}
	return Location{Latitude: *i.Latitude, Longitude: *i.Longitude}, true
}

// SetLocation задаёт координаты инцидента
func (i *Incident) SetLocation(loc Location) {
	lat, lng := loc.Latitude, loc.Longitude
	i.Latitude, i.Longitude = &lat, &lng
}

// ChangeOp - операция над инцидентом в push-ленте
type ChangeOp string

const (
	ChangeUpsert ChangeOp = "upsert"
	ChangeDelete ChangeOp = "delete"
)

// IncidentChange - событие изменения инцидента. Incident может отсутствовать
// для upsert, тогда запись загружается из хранилища по IncidentID.
type IncidentChange struct {
	Op         ChangeOp  `json:"op"`
	IncidentID uuid.UUID `json:"incident_id"`
	Incident   *Incident `json:"incident,omitempty"`
}

// Package zone строит опасные зоны из инцидентов, оценивает их тяжесть
// и определяет зону, в которой находится наблюдатель.
package zone

import (
	"math"
	"time"

	"github.com/shenikar/danger_zone_alerts/internal/geo"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

const (
	MinRiskLevel = 1
	MaxRiskLevel = 5

	// DefaultRadiusBase - радиус зоны с уровнем риска 1, м
	DefaultRadiusBase = 25.0
)

// radiusFactors - множители базового радиуса по уровню риска (25 м ... 90 м)
var radiusFactors = [MaxRiskLevel + 1]float64{0, 1.0, 1.6, 2.2, 2.8, 3.6}

// Builder преобразует инцидент в опасную зону
type Builder struct {
	radiusBase    float64
	bufferDegrees float64
}

// NewBuilder создает Builder. Неположительный radiusBase заменяется значением по умолчанию.
func NewBuilder(radiusBase float64) *Builder {
	if radiusBase <= 0 {
		radiusBase = DefaultRadiusBase
	}
	return &Builder{
		radiusBase:    radiusBase,
		bufferDegrees: geo.DefaultBufferDegrees,
	}
}

// NormalizeRiskLevel приводит уровень риска инцидента к каноничному значению:
// RiskLevel имеет приоритет над устаревшим Level, при отсутствии обоих - 1.
func NormalizeRiskLevel(incident models.Incident) int {
	level := MinRiskLevel
	switch {
	case incident.RiskLevel != nil:
		level = *incident.RiskLevel
	case incident.Level != nil:
		level = *incident.Level
	}
	return clampRisk(level)
}

func clampRisk(level int) int {
	if level < MinRiskLevel {
		return MinRiskLevel
	}
	if level > MaxRiskLevel {
		return MaxRiskLevel
	}
	return level
}

// RadiusForRisk возвращает радиус срабатывания зоны в метрах
func RadiusForRisk(base float64, riskLevel int) float64 {
	return base * radiusFactors[clampRisk(riskLevel)]
}

// LevelFromRisk - классификация по уровню риска инцидента
func LevelFromRisk(riskLevel int) models.Level {
	switch {
	case riskLevel <= 1:
		return models.LevelSafe
	case riskLevel <= 2:
		return models.LevelNeutral
	case riskLevel <= 3:
		return models.LevelCaution
	default:
		return models.LevelDanger
	}
}

// SettingsForRisk вычисляет параметры оповещения для уровня риска
func SettingsForRisk(riskLevel int) models.AlertSettings {
	riskLevel = clampRisk(riskLevel)
	pulse := time.Duration(100+riskLevel*60) * time.Millisecond
	pattern := make([]time.Duration, 0, riskLevel*2)
	for i := 0; i < riskLevel; i++ {
		pattern = append(pattern, pulse, 150*time.Millisecond)
	}
	return models.AlertSettings{
		SoundEnabled:     true,
		VibrationEnabled: riskLevel >= 2,
		PushEnabled:      riskLevel >= 3,
		VibrationPattern: pattern,
		AlertThreshold:   IncidentSeverity(riskLevel),
	}
}

// DefaultTimeBasedRisk - начальные веса по времени суток: ночью опаснее, утром спокойнее
func DefaultTimeBasedRisk(riskLevel int) models.TimeBasedRisk {
	base := IncidentSeverity(riskLevel)
	return models.TimeBasedRisk{
		Morning:   clampSeverity(base * 0.7),
		Afternoon: clampSeverity(base * 0.8),
		Evening:   clampSeverity(base * 1.0),
		Night:     clampSeverity(base * 1.3),
		Weekend:   1.1,
		Weekday:   1.0,
	}
}

// Build строит зону из инцидента. Инциденты без пригодных координат отбрасываются.
func (b *Builder) Build(incident models.Incident) (*models.DangerZone, bool) {
	center, ok := incident.Location()
	if !ok || !center.Valid() {
		return nil, false
	}

	riskLevel := NormalizeRiskLevel(incident)
	name := incident.Name
	if name == "" {
		name = incident.LocationLabel
	}
	if name == "" {
		name = incident.Type
	}

	return &models.DangerZone{
		ID:              incident.ID,
		Name:            name,
		Type:            incident.Type,
		Center:          center,
		Polygon:         geo.BufferPoint(center, b.bufferDegrees),
		RadiusMeters:    RadiusForRisk(b.radiusBase, riskLevel),
		RiskLevel:       riskLevel,
		Level:           LevelFromRisk(riskLevel),
		CurrentSeverity: float64(riskLevel) / MaxRiskLevel * 10,
		TimeBasedRisk:   DefaultTimeBasedRisk(riskLevel),
		AlertSettings:   SettingsForRisk(riskLevel),
		CreatedAt:       incident.CreatedAt,
	}, true
}

func clampSeverity(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(10, v))
}

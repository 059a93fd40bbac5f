// Package alarm управляет циклическим сигналом тревоги, привязанным к нахождению в опасной зоне.
package alarm

import (
	"time"

	"github.com/shenikar/danger_zone_alerts/internal/zone"
)

// Priority - приоритет push-уведомления
type Priority string

const (
	PriorityLow     Priority = "low"
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
	PriorityMax     Priority = "max"
)

// VibrationProbability - вероятность вибрации на каждом такте цикла
const VibrationProbability = 0.4

// Profile - параметры сигнала для уровня риска
type Profile struct {
	RiskLevel            int             `json:"risk_level"`
	LoopInterval         time.Duration   `json:"loop_interval"`
	Volume               float64         `json:"volume"`
	Rate                 float64         `json:"rate"`
	VibrationProbability float64         `json:"vibration_probability"`
	VibrationPattern     []time.Duration `json:"vibration_pattern"`
	Priority             Priority        `json:"priority"`
}

// индексы соответствуют уровню риска 1..5
var (
	loopIntervals = [...]time.Duration{0, 10 * time.Second, 8 * time.Second, 6 * time.Second, 4 * time.Second, 2 * time.Second}
	volumes       = [...]float64{0, 0.2, 0.35, 0.55, 0.75, 1.0}
	rates         = [...]float64{0, 0.9, 1.0, 1.1, 1.2, 1.3}
	priorities    = [...]Priority{"", PriorityLow, PriorityDefault, PriorityHigh, PriorityHigh, PriorityMax}
)

// ProfileFor выбирает параметры сигнала по уровню риска (а не по четырёхуровневой классификации)
func ProfileFor(riskLevel int) Profile {
	if riskLevel < zone.MinRiskLevel {
		riskLevel = zone.MinRiskLevel
	}
	if riskLevel > zone.MaxRiskLevel {
		riskLevel = zone.MaxRiskLevel
	}
	return Profile{
		RiskLevel:            riskLevel,
		LoopInterval:         loopIntervals[riskLevel],
		Volume:               volumes[riskLevel],
		Rate:                 rates[riskLevel],
		VibrationProbability: VibrationProbability,
		VibrationPattern:     zone.SettingsForRisk(riskLevel).VibrationPattern,
		Priority:             priorities[riskLevel],
	}
}

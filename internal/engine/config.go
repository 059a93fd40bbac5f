package engine

import (
	"time"

	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/cooldown"
	"github.com/shenikar/danger_zone_alerts/internal/zone"
)

// Config - параметры движка опасных зон
type Config struct {
	RadiusBase    float64
	Cooldown      time.Duration
	MinRiskLevel  int
	ProximityMode zone.Mode
	NearbyFactor  float64

	SeverityInterval   time.Duration
	LevelCheckInterval time.Duration

	BatteryOptimized            bool
	LevelChangeWhenAcknowledged bool

	Alarm    alarm.Options
	TimeZone *time.Location

	MaxActiveAlerts int
	AlertLogSize    int
	MailboxSize     int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		RadiusBase:                  zone.DefaultRadiusBase,
		Cooldown:                    cooldown.DefaultWindow,
		MinRiskLevel:                zone.MinRiskLevel,
		ProximityMode:               zone.ModeRadius,
		NearbyFactor:                2.0,
		SeverityInterval:            time.Hour,
		LevelCheckInterval:          30 * time.Second,
		LevelChangeWhenAcknowledged: true,
		Alarm:                       alarm.DefaultOptions(),
		TimeZone:                    time.Local,
		MaxActiveAlerts:             50,
		AlertLogSize:                500,
		MailboxSize:                 64,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RadiusBase <= 0 {
		c.RadiusBase = d.RadiusBase
	}
	if c.Cooldown <= 0 {
		c.Cooldown = d.Cooldown
	}
	if c.MinRiskLevel < zone.MinRiskLevel {
		c.MinRiskLevel = d.MinRiskLevel
	}
	if c.ProximityMode == "" {
		c.ProximityMode = d.ProximityMode
	}
	if c.NearbyFactor <= 1 {
		c.NearbyFactor = d.NearbyFactor
	}
	if c.SeverityInterval <= 0 {
		c.SeverityInterval = d.SeverityInterval
	}
	if c.LevelCheckInterval <= 0 {
		c.LevelCheckInterval = d.LevelCheckInterval
	}
	if c.TimeZone == nil {
		c.TimeZone = d.TimeZone
	}
	if c.MaxActiveAlerts <= 0 {
		c.MaxActiveAlerts = d.MaxActiveAlerts
	}
	if c.AlertLogSize <= 0 {
		c.AlertLogSize = d.AlertLogSize
	}
	if c.MailboxSize <= 0 {
		c.MailboxSize = d.MailboxSize
	}
	return c
}

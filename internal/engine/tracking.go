package engine

import (
	"time"

	"github.com/shenikar/danger_zone_alerts/internal/geo"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

const (
	fastMovementMeters     = 100.0
	moderateMovementMeters = 20.0

	fastInterval       = time.Second
	moderateInterval   = 3 * time.Second
	stationaryInterval = 10 * time.Second

	minSampleInterval = time.Second
	maxSampleInterval = 30 * time.Second
)

// Tracker подбирает интервал следующего замера местоположения по скорости перемещения
type Tracker struct {
	batteryOptimized bool
	last             *models.Location
	interval         time.Duration
}

// NewTracker создает трекер
func NewTracker(batteryOptimized bool) *Tracker {
	return &Tracker{
		batteryOptimized: batteryOptimized,
		interval:         adjustInterval(moderateInterval, batteryOptimized),
	}
}

// Observe учитывает новую точку и возвращает рекомендуемый интервал до следующей
func (t *Tracker) Observe(loc models.Location) time.Duration {
	base := moderateInterval
	if t.last != nil {
		moved := geo.Distance(*t.last, loc)
		switch {
		case moved > fastMovementMeters:
			base = fastInterval
		case moved > moderateMovementMeters:
			base = moderateInterval
		default:
			base = stationaryInterval
		}
	}
	t.last = &loc
	t.interval = adjustInterval(base, t.batteryOptimized)
	return t.interval
}

// Interval - последний выданный интервал
func (t *Tracker) Interval() time.Duration {
	return t.interval
}

func adjustInterval(base time.Duration, batteryOptimized bool) time.Duration {
	if batteryOptimized {
		return min(base*3, maxSampleInterval)
	}
	return max(base/2, minSampleInterval)
}

package zone

import (
	"github.com/shenikar/danger_zone_alerts/internal/geo"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

// Mode - способ проверки попадания в зону
type Mode string

const (
	ModeRadius  Mode = "radius"
	ModePolygon Mode = "polygon"
)

// ParseMode разбирает режим, по умолчанию - радиус
func ParseMode(s string) Mode {
	if Mode(s) == ModePolygon {
		return ModePolygon
	}
	return ModeRadius
}

// Match - найденная зона и расстояние до её центра в метрах
type Match struct {
	Zone     *models.DangerZone
	Distance float64
}

// Detector определяет зону, в которой находится наблюдатель
type Detector struct {
	mode    Mode
	minRisk int
}

// NewDetector создает детектор. Зоны с уровнем риска ниже minRisk не рассматриваются.
func NewDetector(mode Mode, minRisk int) *Detector {
	return &Detector{mode: mode, minRisk: clampRisk(minRisk)}
}

// FindOccupiedZone возвращает ближайшую зону, в которую попадает наблюдатель.
// При равном расстоянии выигрывает зона с большим уровнем риска, затем - первая по порядку.
func (d *Detector) FindOccupiedZone(observer models.Location, zones []*models.DangerZone) (Match, bool) {
	return d.nearest(observer, zones, func(z *models.DangerZone, distance float64) bool {
		if d.mode == ModePolygon {
			return geo.PointInPolygon(observer, z.Polygon)
		}
		return distance <= z.RadiusMeters
	})
}

// FindNearbyZone возвращает ближайшую зону, до границы которой не больше factor радиусов,
// но в которую наблюдатель не попадает.
func (d *Detector) FindNearbyZone(observer models.Location, zones []*models.DangerZone, factor float64) (Match, bool) {
	if factor <= 1 {
		return Match{}, false
	}
	return d.nearest(observer, zones, func(z *models.DangerZone, distance float64) bool {
		return distance > z.RadiusMeters && distance <= z.RadiusMeters*factor
	})
}

func (d *Detector) nearest(observer models.Location, zones []*models.DangerZone, qualifies func(*models.DangerZone, float64) bool) (Match, bool) {
	if !observer.Valid() {
		return Match{}, false
	}

	var best Match
	found := false
	for _, z := range zones {
		if z == nil || z.RiskLevel < d.minRisk || !z.Center.Valid() {
			continue
		}
		distance := geo.Distance(observer, z.Center)
		if !qualifies(z, distance) {
			continue
		}
		if !found || distance < best.Distance ||
			(distance == best.Distance && z.RiskLevel > best.Zone.RiskLevel) {
			best = Match{Zone: z, Distance: distance}
			found = true
		}
	}
	return best, found
}

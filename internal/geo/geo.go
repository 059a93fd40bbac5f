// Package geo - геометрические примитивы для работы с опасными зонами.
package geo

import (
	"math"

	"github.com/shenikar/danger_zone_alerts/internal/models"
)

const earthRadiusMeters = 6371000

// DefaultBufferDegrees - смещение при построении полигона вокруг точки (~111 м)
const DefaultBufferDegrees = 0.002

// Distance возвращает расстояние по большому кругу между точками в метрах (формула гаверсинусов)
func Distance(a, b models.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// BufferPoint строит квадратный полигон вокруг точки со стороной 2*offset градусов.
// Вершины перечислены против часовой стрелки, полигон не замкнут.
func BufferPoint(center models.Location, offset float64) []models.Location {
	return []models.Location{
		{Latitude: center.Latitude - offset, Longitude: center.Longitude - offset},
		{Latitude: center.Latitude - offset, Longitude: center.Longitude + offset},
		{Latitude: center.Latitude + offset, Longitude: center.Longitude + offset},
		{Latitude: center.Latitude + offset, Longitude: center.Longitude - offset},
	}
}

// PointInPolygon - проверка попадания точки в полигон методом трассировки луча (правило чёт-нечет)
func PointInPolygon(p models.Location, polygon []models.Location) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].Longitude, polygon[i].Latitude
		xj, yj := polygon[j].Longitude, polygon[j].Latitude
		if (yi > p.Latitude) != (yj > p.Latitude) &&
			p.Longitude < (xj-xi)*(p.Latitude-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Offset сдвигает точку на заданное число метров к северу и востоку.
// Используется для построения тестовых и соседних точек.
func Offset(from models.Location, northMeters, eastMeters float64) models.Location {
	dLat := northMeters / earthRadiusMeters * 180 / math.Pi
	dLon := eastMeters / (earthRadiusMeters * math.Cos(from.Latitude*math.Pi/180)) * 180 / math.Pi
	return models.Location{Latitude: from.Latitude + dLat, Longitude: from.Longitude + dLon}
}

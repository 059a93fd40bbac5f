package models

import (
	"math"
	"time"
)

// Location - географическая точка в WGS84
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid проверяет, что координаты заданы и лежат в допустимых пределах
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	if math.IsInf(l.Latitude, 0) || math.IsInf(l.Longitude, 0) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// LocationSample - отметка местоположения наблюдателя
type LocationSample struct {
	Location   Location  `json:"location"`
	ReceivedAt time.Time `json:"received_at"`
}

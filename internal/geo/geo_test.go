package geo

import (
	"testing"

	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      models.Location
		expected  float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         models.Location{Latitude: 55.75, Longitude: 37.61},
			b:         models.Location{Latitude: 55.75, Longitude: 37.61},
			expected:  0,
			tolerance: 0.5,
		},
		{
			name:      "Moscow to Saint Petersburg",
			a:         models.Location{Latitude: 55.7558, Longitude: 37.6173},
			b:         models.Location{Latitude: 59.9343, Longitude: 30.3351},
			expected:  634000,
			tolerance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), tt.tolerance)
		})
	}
}

func TestOffset_RoundTrip(t *testing.T) {
	origin := models.Location{Latitude: 55.75, Longitude: 37.61}

	moved := Offset(origin, 20, 0)
	assert.InDelta(t, 20, Distance(origin, moved), 0.5)

	moved = Offset(origin, 0, 70)
	assert.InDelta(t, 70, Distance(origin, moved), 0.5)
}

func TestPointInPolygon(t *testing.T) {
	center := models.Location{Latitude: 10, Longitude: 20}
	square := BufferPoint(center, DefaultBufferDegrees)

	assert.Len(t, square, 4)
	assert.True(t, PointInPolygon(center, square))
	assert.True(t, PointInPolygon(models.Location{Latitude: 10.0019, Longitude: 19.9981}, square))
	assert.False(t, PointInPolygon(models.Location{Latitude: 10.0021, Longitude: 20}, square))
	assert.False(t, PointInPolygon(models.Location{Latitude: 10, Longitude: 20.01}, square))
}

func TestPointInPolygon_Concave(t *testing.T) {
	// П-образный полигон: точка в "вырезе" снаружи
	polygon := []models.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 3},
		{Latitude: 3, Longitude: 3},
		{Latitude: 3, Longitude: 2},
		{Latitude: 1, Longitude: 2},
		{Latitude: 1, Longitude: 1},
		{Latitude: 3, Longitude: 1},
		{Latitude: 3, Longitude: 0},
	}

	assert.True(t, PointInPolygon(models.Location{Latitude: 2, Longitude: 0.5}, polygon))
	assert.False(t, PointInPolygon(models.Location{Latitude: 2, Longitude: 1.5}, polygon))
	assert.True(t, PointInPolygon(models.Location{Latitude: 0.5, Longitude: 1.5}, polygon))
}

func TestPointInPolygon_Degenerate(t *testing.T) {
	assert.False(t, PointInPolygon(models.Location{}, nil))
	assert.False(t, PointInPolygon(models.Location{}, []models.Location{{}, {Latitude: 1}}))
}

package zone

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeRiskLevel(t *testing.T) {
	tests := []struct {
		name     string
		incident models.Incident
		expected int
	}{
		{name: "risk level wins over legacy level", incident: models.Incident{RiskLevel: intPtr(4), Level: intPtr(2)}, expected: 4},
		{name: "legacy level used when risk level absent", incident: models.Incident{Level: intPtr(3)}, expected: 3},
		{name: "defaults to 1", incident: models.Incident{}, expected: 1},
		{name: "clamped above", incident: models.Incident{RiskLevel: intPtr(9)}, expected: 5},
		{name: "clamped below", incident: models.Incident{RiskLevel: intPtr(0)}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRiskLevel(tt.incident))
		})
	}
}

func TestRadiusForRisk(t *testing.T) {
	assert.InDelta(t, 25, RadiusForRisk(DefaultRadiusBase, 1), 1e-9)
	assert.InDelta(t, 90, RadiusForRisk(DefaultRadiusBase, 5), 1e-9)

	prev := 0.0
	for risk := MinRiskLevel; risk <= MaxRiskLevel; risk++ {
		r := RadiusForRisk(DefaultRadiusBase, risk)
		assert.Greater(t, r, prev)
		prev = r
	}
}

func TestLevelFromRisk(t *testing.T) {
	assert.Equal(t, models.LevelSafe, LevelFromRisk(1))
	assert.Equal(t, models.LevelNeutral, LevelFromRisk(2))
	assert.Equal(t, models.LevelCaution, LevelFromRisk(3))
	assert.Equal(t, models.LevelDanger, LevelFromRisk(4))
	assert.Equal(t, models.LevelDanger, LevelFromRisk(5))
}

func TestBuild_Success(t *testing.T) {
	// Подготовка
	builder := NewBuilder(DefaultRadiusBase)
	incident := models.Incident{
		ID:            uuid.New(),
		Type:          "assault",
		LocationLabel: "Central Park",
		Latitude:      floatPtr(55.75),
		Longitude:     floatPtr(37.61),
		RiskLevel:     intPtr(5),
		CreatedAt:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	// Действие
	z, ok := builder.Build(incident)

	// Проверки
	require.True(t, ok)
	assert.Equal(t, incident.ID, z.ID)
	assert.Equal(t, "Central Park", z.Name)
	assert.Equal(t, 5, z.RiskLevel)
	assert.Equal(t, models.LevelDanger, z.Level)
	assert.InDelta(t, 10, z.CurrentSeverity, 1e-9)
	assert.InDelta(t, 90, z.RadiusMeters, 1e-9)
	assert.Len(t, z.Polygon, 4)
	assert.True(t, z.AlertSettings.PushEnabled)
	assert.Len(t, z.AlertSettings.VibrationPattern, 10)
}

func TestBuild_InitialSeverity(t *testing.T) {
	builder := NewBuilder(0)
	z, ok := builder.Build(models.Incident{ID: uuid.New(), Latitude: floatPtr(1), Longitude: floatPtr(1), Level: intPtr(2)})

	require.True(t, ok)
	assert.InDelta(t, 4, z.CurrentSeverity, 1e-9)
	assert.Equal(t, models.LevelNeutral, z.Level)
	assert.InDelta(t, 40, z.RadiusMeters, 1e-9)
}

func TestBuild_RejectsBadCoordinates(t *testing.T) {
	builder := NewBuilder(DefaultRadiusBase)

	_, ok := builder.Build(models.Incident{ID: uuid.New(), Latitude: floatPtr(math.NaN()), Longitude: floatPtr(10)})
	assert.False(t, ok)

	_, ok = builder.Build(models.Incident{ID: uuid.New(), Latitude: floatPtr(95), Longitude: floatPtr(10)})
	assert.False(t, ok)
}

func TestBuild_RejectsMissingCoordinates(t *testing.T) {
	builder := NewBuilder(DefaultRadiusBase)

	tests := []struct {
		name     string
		incident models.Incident
	}{
		{name: "no coordinates", incident: models.Incident{ID: uuid.New(), RiskLevel: intPtr(4)}},
		{name: "no longitude", incident: models.Incident{ID: uuid.New(), Latitude: floatPtr(0), RiskLevel: intPtr(4)}},
		{name: "no latitude", incident: models.Incident{ID: uuid.New(), Longitude: floatPtr(0), RiskLevel: intPtr(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, ok := builder.Build(tt.incident)

			assert.False(t, ok)
			assert.Nil(t, z)
		})
	}
}

func TestBuild_AcceptsNullIsland(t *testing.T) {
	builder := NewBuilder(DefaultRadiusBase)

	z, ok := builder.Build(models.Incident{ID: uuid.New(), Latitude: floatPtr(0), Longitude: floatPtr(0)})

	require.True(t, ok)
	assert.Equal(t, models.Location{}, z.Center)
}

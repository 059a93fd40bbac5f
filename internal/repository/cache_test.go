package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*IncidentCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIncidentCache(client, ttl).(*IncidentCache), mr
}

func TestIncidentCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	risk := 4
	incidents := []models.Incident{
		{ID: uuid.New(), Name: "Robbery", RiskLevel: &risk, Validated: true},
		{ID: uuid.New(), Name: "Vandalism", Validated: true},
	}
	incidents[0].SetLocation(models.Location{Latitude: 55.75, Longitude: 37.61})

	require.NoError(t, cache.SetSnapshot(ctx, incidents))

	got, err := cache.GetSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, incidents[0].ID, got[0].ID)
	require.NotNil(t, got[0].RiskLevel)
	assert.Equal(t, 4, *got[0].RiskLevel)
	assert.Nil(t, got[1].RiskLevel)
}

func TestIncidentCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	got, err := cache.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIncidentCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, cache.SetSnapshot(ctx, []models.Incident{{ID: uuid.New()}}))

	mr.FastForward(2 * time.Minute)

	got, err := cache.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIncidentCache_CorruptedSnapshot(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(snapshotKey, "not json"))

	_, err := cache.GetSnapshot(context.Background())
	assert.Error(t, err)
}

func TestIncidentCache_RedisDown(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, err := cache.GetSnapshot(context.Background())
	assert.Error(t, err)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/service"
)

const (
	snapshotKey = "incidents:snapshot"
	// DefaultSnapshotTTL - срок жизни снимка; устаревшие зоны хуже отсутствующих
	DefaultSnapshotTTL = 30 * time.Minute
)

// IncidentCache хранит последний успешный снимок инцидентов в Redis,
// чтобы движок мог восстановить зоны при недоступности базы
type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(client *redis.Client, ttl time.Duration) service.IncidentCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &IncidentCache{redisClient: client, ttl: ttl}
}

// GetSnapshot возвращает снимок; nil без ошибки, если снимка нет
func (c *IncidentCache) GetSnapshot(ctx context.Context) ([]models.Incident, error) {
	val, err := c.redisClient.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident snapshot from cache: %w", err)
	}

	var incidents []models.Incident
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident snapshot: %w", err)
	}
	return incidents, nil
}

// SetSnapshot сохраняет снимок в Redis
func (c *IncidentCache) SetSnapshot(ctx context.Context, incidents []models.Incident) error {
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incident snapshot: %w", err)
	}
	if err := c.redisClient.Set(ctx, snapshotKey, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set incident snapshot in cache: %w", err)
	}
	return nil
}

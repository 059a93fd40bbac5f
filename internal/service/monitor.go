package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

// ZoneMonitor - интерфейс движка опасных зон для слоя API
//
//go:generate mockgen -source=monitor.go -destination=mocks/mock_monitor.go -package=mocks
type ZoneMonitor interface {
	UpdateObserverLocation(ctx context.Context, lat, lng float64) (time.Duration, bool, error)
	GetCurrentZone(ctx context.Context) (models.DangerZone, bool, error)
	GetZones(ctx context.Context) ([]models.DangerZone, error)
	GetActiveAlerts(ctx context.Context) ([]models.AlertEvent, error)
	GetOccupancy(ctx context.Context) (models.ZoneOccupancyState, error)
	AcknowledgeAlert(ctx context.Context, id uuid.UUID) (bool, error)
	PlaybackEnded(ctx context.Context) (bool, error)
	SubscribeAlerts(buffer int) (<-chan models.AlertEvent, func())
}

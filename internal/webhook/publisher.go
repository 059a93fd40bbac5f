package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

const (
	webhookQueueKey = "webhook_events"
)

// EventType - тип события вебхука
type EventType string

const (
	EventAlert            EventType = "alert"
	EventAlarmPlay        EventType = "alarm.play"
	EventAlarmVibrate     EventType = "alarm.vibrate"
	EventAlarmSilence     EventType = "alarm.silence"
	EventPushNotification EventType = "push.notification"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	ID                 uuid.UUID          `json:"id"`
	Type               EventType          `json:"type"`
	Timestamp          time.Time          `json:"timestamp"`
	ZoneID             uuid.UUID          `json:"zone_id"`
	Alert              *models.AlertEvent `json:"alert,omitempty"`
	Playback           *alarm.Playback    `json:"playback,omitempty"`
	VibrationPatternMs []int64            `json:"vibration_pattern_ms,omitempty"`
	Priority           alarm.Priority     `json:"priority,omitempty"`
}

// RedisWebhookPublisher ставит события в очередь Redis, откуда их забирает WebhookWorker.
// Реализует alarm.Sink (сигнал на устройстве наблюдателя) и service.AlertPublisher.
type RedisWebhookPublisher struct {
	redisClient *redis.Client
	clock       clockwork.Clock
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client, clock clockwork.Clock) *RedisWebhookPublisher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RedisWebhookPublisher{
		redisClient: client,
		clock:       clock,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// PublishAlert публикует событие журнала оповещений
func (p *RedisWebhookPublisher) PublishAlert(ctx context.Context, event models.AlertEvent) error {
	return p.Publish(ctx, WebhookEvent{Type: EventAlert, ZoneID: event.ZoneID, Alert: &event})
}

// Play - очередной такт звукового сигнала
func (p *RedisWebhookPublisher) Play(ctx context.Context, playback alarm.Playback) error {
	return p.Publish(ctx, WebhookEvent{Type: EventAlarmPlay, ZoneID: playback.ZoneID, Playback: &playback})
}

// Vibrate - импульс вибрации
func (p *RedisWebhookPublisher) Vibrate(ctx context.Context, zoneID uuid.UUID, pattern []time.Duration) error {
	ms := make([]int64, 0, len(pattern))
	for _, d := range pattern {
		ms = append(ms, d.Milliseconds())
	}
	return p.Publish(ctx, WebhookEvent{Type: EventAlarmVibrate, ZoneID: zoneID, VibrationPatternMs: ms})
}

// Notify - push-уведомление
func (p *RedisWebhookPublisher) Notify(ctx context.Context, event models.AlertEvent, priority alarm.Priority) error {
	return p.Publish(ctx, WebhookEvent{Type: EventPushNotification, ZoneID: event.ZoneID, Alert: &event, Priority: priority})
}

// Silence - остановка сигнала
func (p *RedisWebhookPublisher) Silence(ctx context.Context, zoneID uuid.UUID) error {
	return p.Publish(ctx, WebhookEvent{Type: EventAlarmSilence, ZoneID: zoneID})
}

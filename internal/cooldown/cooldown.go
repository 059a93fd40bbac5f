// Package cooldown подавляет повторные оповещения одного типа для одной зоны
// в течение окна охлаждения.
package cooldown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultWindow - окно охлаждения по умолчанию
const DefaultWindow = 5 * time.Minute

// Limiter решает, можно ли выпустить событие с данным ключом
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Key строит ключ для пары (тип события, зона)
func Key(kind models.AlertKind, zoneID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, zoneID)
}

// ExpiringSet - множество ключей с самоистечением, время берётся из clock
type ExpiringSet struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	window  time.Duration
	entries map[string]time.Time
}

// NewExpiringSet создает множество с окном window
func NewExpiringSet(clock clockwork.Clock, window time.Duration) *ExpiringSet {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &ExpiringSet{
		clock:   clock,
		window:  window,
		entries: make(map[string]time.Time),
	}
}

// Allow возвращает true и запоминает ключ, если его нет или срок истёк
func (s *ExpiringSet) Allow(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.purge(now)
	if expiresAt, ok := s.entries[key]; ok && now.Before(expiresAt) {
		return false
	}
	s.entries[key] = now.Add(s.window)
	return true
}

// Len - количество неистёкших ключей
func (s *ExpiringSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge(s.clock.Now())
	return len(s.entries)
}

func (s *ExpiringSet) purge(now time.Time) {
	for key, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, key)
		}
	}
}

const redisKeyPrefix = "alert_cooldown:"

// RedisLimiter хранит ключи охлаждения в Redis с TTL, что позволяет
// разделять окно между несколькими экземплярами движка.
type RedisLimiter struct {
	redisClient *redis.Client
	window      time.Duration
	logger      *logrus.Logger
}

// NewRedisLimiter создает RedisLimiter
func NewRedisLimiter(client *redis.Client, window time.Duration, logger *logrus.Logger) *RedisLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{
		redisClient: client,
		window:      window,
		logger:      logger,
	}
}

// Allow использует SET NX с TTL. При недоступности Redis событие пропускается.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	ok, err := l.redisClient.SetNX(ctx, redisKeyPrefix+key, 1, l.window).Result()
	if err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("Cooldown check failed, allowing alert")
		return true
	}
	return ok
}

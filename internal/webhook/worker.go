package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/danger_zone_alerts/internal/config"
	"github.com/shenikar/danger_zone_alerts/internal/observability"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

const (
	popTimeout          = time.Second
	breakerFailures     = 5
	breakerOpenDuration = 30 * time.Second
)

// ErrCircuitOpen - доставка приостановлена после серии отказов получателя
var ErrCircuitOpen = errors.New("webhook circuit breaker is open")

// statusError - ответ получателя с кодом вне 2xx
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.code)
}

// WebhookWorker - структура для обработки и отправки вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	metrics     *observability.Metrics
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[int]
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config, metrics *observability.Metrics) *WebhookWorker {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	breaker := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        "webhook",
		MaxRequests: 1,
		Timeout:     breakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		// Отказ получателя из-за самого запроса (4xx) не размыкает выключатель
		IsSuccessful: func(err error) bool {
			var se *statusError
			return err == nil || (errors.As(err, &se) && se.code < http.StatusInternalServerError)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Webhook circuit breaker state changed")
		},
	})
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		metrics:     metrics,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		breaker: breaker,
	}
}

// Start запускает горутину для обработки очереди вебхуков
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go func() {
		for {
			if ctx.Err() != nil {
				w.logger.Info("Stopping webhook worker.")
				return
			}
			if _, err := w.processNext(ctx); err != nil && ctx.Err() == nil {
				w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
				select {
				case <-ctx.Done():
				case <-time.After(w.cfg.WebhookTimeout):
				}
			}
		}
	}()
}

// processNext забирает одно событие из очереди и доставляет его.
// Возвращает false, если очередь пуста.
func (w *WebhookWorker) processNext(ctx context.Context) (bool, error) {
	// BRPOP - блокирующее извлечение из правой части списка (очереди)
	result, err := w.redisClient.BRPop(ctx, popTimeout, webhookQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	// result[0] - ключ, result[1] - значение
	payload := result[1]
	var event WebhookEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
		return true, nil
	}

	log := w.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"zone_id":    event.ZoneID,
	})
	if err := w.Deliver(ctx, []byte(payload)); err != nil {
		log.WithError(err).Error("Failed to deliver webhook")
		return true, nil
	}
	log.Debug("Webhook delivered successfully.")
	return true, nil
}

// Deliver отправляет payload на WEBHOOK_URL с повторами и автоматическим выключателем.
// Ответы 4xx не повторяются.
func (w *WebhookWorker) Deliver(ctx context.Context, payload []byte) error {
	if w.cfg.WebhookURL == "" {
		w.logger.Debug("Webhook URL is not configured. Skipping webhook delivery.")
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.cfg.WebhookBaseDelay
	bo.MaxElapsedTime = 0
	retries := uint64(0)
	if w.cfg.WebhookMaxRetries > 1 {
		retries = uint64(w.cfg.WebhookMaxRetries - 1)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		_, err := w.breaker.Execute(func() (int, error) {
			return w.send(ctx, payload)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(ErrCircuitOpen)
		}

		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		w.logger.WithError(err).WithField("attempt", attempt).Warn("Webhook delivery attempt failed")
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			w.metrics.WebhookDeliveries.WithLabelValues("circuit_open").Inc()
		} else {
			w.metrics.WebhookDeliveries.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("webhook delivery failed after %d attempts: %w", attempt, err)
	}
	w.metrics.WebhookDeliveries.WithLabelValues("success").Inc()
	return nil
}

func (w *WebhookWorker) send(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("failed to create webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", generateHMACSHA256(payload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &statusError{code: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shenikar/danger_zone_alerts/internal/config"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/observability"
	"github.com/sirupsen/logrus"
)

// ChangeApplier применяет изменения инцидентов (реализуется service.FeedService)
type ChangeApplier interface {
	ApplyChange(ctx context.Context, change models.IncidentChange) error
}

// Consumer читает push-ленту изменений инцидентов из Kafka
type Consumer struct {
	reader  *kafkago.Reader
	applier ChangeApplier
	logger  *logrus.Logger
	metrics *observability.Metrics
}

// NewConsumer создает потребителя для настроенного топика
func NewConsumer(cfg *config.Config, applier ChangeApplier, logger *logrus.Logger, metrics *observability.Metrics) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaIncidentTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return &Consumer{
		reader:  reader,
		applier: applier,
		logger:  logger,
		metrics: metrics,
	}
}

// Run читает сообщения до отмены контекста. Смещение фиксируется после
// применения изменения; неразборчивые сообщения пропускаются.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.WithField("topic", c.reader.Config().Topic).Info("Starting incident change consumer...")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("Stopping incident change consumer.")
				return
			}
			c.logger.WithError(err).Error("Failed to fetch incident change")
			continue
		}

		log := c.logger.WithFields(logrus.Fields{
			"partition": msg.Partition,
			"offset":    msg.Offset,
		})

		change, err := decodeChange(msg)
		if err != nil {
			c.metrics.FeedEvents.WithLabelValues("invalid").Inc()
			log.WithError(err).Warn("Skipping malformed incident change")
		} else if err := c.applier.ApplyChange(ctx, change); err != nil {
			if ctx.Err() != nil {
				return
			}
			// не фиксируем смещение: изменение будет прочитано повторно
			log.WithError(err).Error("Failed to apply incident change")
			continue
		} else {
			c.metrics.FeedEvents.WithLabelValues(string(change.Op)).Inc()
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("Failed to commit incident change offset")
		}
	}
}

// Close закрывает читателя
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// decodeChange разбирает сообщение. Ключ сообщения - id инцидента, если его нет в теле.
func decodeChange(msg kafkago.Message) (models.IncidentChange, error) {
	var change models.IncidentChange
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		return models.IncidentChange{}, fmt.Errorf("decode incident change: %w", err)
	}

	if change.Op == "" {
		for _, h := range msg.Headers {
			if h.Key == "op" {
				change.Op = models.ChangeOp(h.Value)
			}
		}
	}
	if change.Op != models.ChangeUpsert && change.Op != models.ChangeDelete {
		return models.IncidentChange{}, fmt.Errorf("decode incident change: unknown op %q", change.Op)
	}

	if change.IncidentID == uuid.Nil && change.Incident != nil {
		change.IncidentID = change.Incident.ID
	}
	if change.IncidentID == uuid.Nil && len(msg.Key) > 0 {
		id, err := uuid.ParseBytes(msg.Key)
		if err != nil {
			return models.IncidentChange{}, fmt.Errorf("decode incident change key: %w", err)
		}
		change.IncidentID = id
	}
	if change.IncidentID == uuid.Nil {
		return models.IncidentChange{}, errors.New("decode incident change: missing incident id")
	}
	return change, nil
}

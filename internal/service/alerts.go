package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// AlertRepository - журнал оповещений в бд
//
//go:generate mockgen -source=alerts.go -destination=mocks/mock_alerts.go -package=mocks
type AlertRepository interface {
	SaveAlertEvent(ctx context.Context, event *models.AlertEvent) error
	ListRecent(ctx context.Context, limit int) ([]models.AlertEvent, error)
}

// AlertPublisher ставит оповещение в очередь внешней доставки
type AlertPublisher interface {
	PublishAlert(ctx context.Context, event models.AlertEvent) error
}

// AlertHistory - чтение журнала оповещений
type AlertHistory interface {
	History(ctx context.Context, limit int) ([]models.AlertEvent, error)
}

// AlertService сохраняет и рассылает оповещения движка
type AlertService struct {
	repo      AlertRepository
	publisher AlertPublisher
	logger    *logrus.Logger
}

// NewAlertService создает сервис. publisher может быть nil - тогда внешняя доставка отключена.
func NewAlertService(repo AlertRepository, publisher AlertPublisher, logger *logrus.Logger) *AlertService {
	return &AlertService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Record сохраняет оповещение и ставит его в очередь доставки
func (s *AlertService) Record(ctx context.Context, event models.AlertEvent) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alerts",
		"method":   "Record",
		"alert_id": event.ID,
		"kind":     event.Kind,
		"zone_id":  event.ZoneID,
	})

	var errs []error
	if err := s.repo.SaveAlertEvent(ctx, &event); err != nil {
		log.WithError(err).Error("Failed to save alert event")
		errs = append(errs, fmt.Errorf("service: could not save alert event: %w", err))
	}
	if s.publisher != nil {
		if err := s.publisher.PublishAlert(ctx, event); err != nil {
			log.WithError(err).Error("Failed to publish alert event")
			errs = append(errs, fmt.Errorf("service: could not publish alert event: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run записывает оповещения из потока до его закрытия или отмены контекста
func (s *AlertService) Run(ctx context.Context, events <-chan models.AlertEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			// ошибки уже залогированы, оповещение остаётся в памяти движка
			_ = s.Record(ctx, event)
		}
	}
}

// History возвращает последние оповещения из журнала
func (s *AlertService) History(ctx context.Context, limit int) ([]models.AlertEvent, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	events, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.WithError(err).WithField("limit", limit).Error("Failed to list alert history")
		return nil, fmt.Errorf("service: could not list alert history: %w", err)
	}
	return events, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/observability"
	"github.com/sirupsen/logrus"
)

// ErrIncidentNotFound - инцидент отсутствует в хранилище
var ErrIncidentNotFound = errors.New("incident not found")

// IncidentRepository определяет контракт для чтения подтверждённых инцидентов из бд
//
//go:generate mockgen -source=feed.go -destination=mocks/mock_feed.go -package=mocks
type IncidentRepository interface {
	ListValidated(ctx context.Context) ([]models.Incident, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
}

// IncidentCache - последний успешный снимок инцидентов
type IncidentCache interface {
	GetSnapshot(ctx context.Context) ([]models.Incident, error)
	SetSnapshot(ctx context.Context, incidents []models.Incident) error
}

// IncidentSink принимает изменения набора инцидентов (реализуется движком зон)
type IncidentSink interface {
	SyncIncidents(ctx context.Context, incidents []models.Incident) error
	UpsertIncident(ctx context.Context, incident models.Incident) error
	RemoveIncident(ctx context.Context, id uuid.UUID) error
}

// FeedService переносит инциденты из источника в движок: периодический опрос
// полного снимка и точечные изменения из push-ленты
type FeedService struct {
	repo     IncidentRepository
	cache    IncidentCache
	sink     IncidentSink
	clock    clockwork.Clock
	logger   *logrus.Logger
	metrics  *observability.Metrics
	interval time.Duration
}

func NewFeedService(repo IncidentRepository, cache IncidentCache, sink IncidentSink, clock clockwork.Clock, logger *logrus.Logger, metrics *observability.Metrics, interval time.Duration) *FeedService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &FeedService{
		repo:     repo,
		cache:    cache,
		sink:     sink,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
	}
}

// Poll загружает полный снимок подтверждённых инцидентов и передаёт его движку.
// При ошибке бд используется последний снимок из кеша.
func (s *FeedService) Poll(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "feed",
		"method":  "Poll",
	})

	incidents, err := s.repo.ListValidated(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to load incidents from repository, falling back to cache")
		cached, cacheErr := s.cache.GetSnapshot(ctx)
		if cacheErr != nil || cached == nil {
			if cacheErr != nil {
				log.WithError(cacheErr).Error("Failed to load incident snapshot from cache")
			}
			s.metrics.FeedPolls.WithLabelValues("error").Inc()
			return fmt.Errorf("service: could not load incidents: %w", err)
		}
		s.metrics.FeedPolls.WithLabelValues("cache").Inc()
		incidents = cached
	} else {
		if err := s.cache.SetSnapshot(ctx, incidents); err != nil {
			log.WithError(err).Warn("Failed to cache incident snapshot")
		}
		s.metrics.FeedPolls.WithLabelValues("success").Inc()
	}

	if err := s.sink.SyncIncidents(ctx, incidents); err != nil {
		log.WithError(err).Error("Failed to apply incident snapshot")
		return fmt.Errorf("service: could not apply incident snapshot: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incident snapshot applied")
	return nil
}

// Run опрашивает источник до отмены контекста. После ошибки следующий опрос
// откладывается по экспоненциальной задержке, но не дольше интервала опроса.
func (s *FeedService) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval).Info("Starting incident feed poller...")

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = s.interval
	retry.MaxElapsedTime = 0

	for {
		wait := s.interval
		if err := s.Poll(ctx); err != nil {
			wait = retry.NextBackOff()
			s.logger.WithError(err).WithField("retry_in", wait).Warn("Incident poll failed")
		} else {
			retry.Reset()
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Stopping incident feed poller.")
			return
		case <-s.clock.After(wait):
		}
	}
}

// ApplyChange применяет одно изменение из push-ленты
func (s *FeedService) ApplyChange(ctx context.Context, change models.IncidentChange) error {
	id := change.IncidentID
	if id == uuid.Nil && change.Incident != nil {
		id = change.Incident.ID
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "feed",
		"method":      "ApplyChange",
		"op":          change.Op,
		"incident_id": id,
	})

	switch change.Op {
	case models.ChangeDelete:
		if err := s.sink.RemoveIncident(ctx, id); err != nil {
			return fmt.Errorf("service: could not remove incident: %w", err)
		}
	case models.ChangeUpsert:
		incident := change.Incident
		if incident == nil {
			loaded, err := s.repo.GetByID(ctx, id)
			if errors.Is(err, ErrIncidentNotFound) {
				log.Info("Incident no longer exists, removing zone")
				if err := s.sink.RemoveIncident(ctx, id); err != nil {
					return fmt.Errorf("service: could not remove incident: %w", err)
				}
				return nil
			}
			if err != nil {
				return fmt.Errorf("service: could not load incident: %w", err)
			}
			incident = loaded
		}
		if err := s.sink.UpsertIncident(ctx, *incident); err != nil {
			return fmt.Errorf("service: could not upsert incident: %w", err)
		}
	default:
		return fmt.Errorf("service: unknown incident change op %q", change.Op)
	}

	log.Debug("Incident change applied")
	return nil
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAlertService(t *testing.T) (*AlertService, *mocks.MockAlertRepository, *mocks.MockAlertPublisher) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAlertRepository(ctrl)
	publisher := mocks.NewMockAlertPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	return NewAlertService(repo, publisher, logger), repo, publisher
}

func testAlert() models.AlertEvent {
	return models.AlertEvent{
		ID:        uuid.New(),
		Kind:      models.AlertEntry,
		ZoneID:    uuid.New(),
		ZoneName:  "Central park",
		RiskLevel: 4,
		Level:     models.LevelDanger,
		Message:   "You have entered a danger zone",
		Timestamp: time.Date(2026, 10, 17, 21, 0, 0, 0, time.UTC),
	}
}

func TestRecord_SavesAndPublishes(t *testing.T) {
	service, repo, publisher := newTestAlertService(t)
	ctx := context.Background()
	event := testAlert()

	repo.EXPECT().SaveAlertEvent(ctx, &event).Return(nil)
	publisher.EXPECT().PublishAlert(ctx, event).Return(nil)

	assert.NoError(t, service.Record(ctx, event))
}

func TestRecord_PublishesEvenIfSaveFails(t *testing.T) {
	service, repo, publisher := newTestAlertService(t)
	ctx := context.Background()
	event := testAlert()
	saveErr := errors.New("db down")

	repo.EXPECT().SaveAlertEvent(ctx, gomock.Any()).Return(saveErr)
	publisher.EXPECT().PublishAlert(ctx, event).Return(nil)

	err := service.Record(ctx, event)
	assert.ErrorIs(t, err, saveErr)
}

func TestRecord_WithoutPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAlertRepository(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	service := NewAlertService(repo, nil, logger)

	repo.EXPECT().SaveAlertEvent(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, service.Record(context.Background(), testAlert()))
}

func TestRun_DrainsUntilClosed(t *testing.T) {
	service, repo, publisher := newTestAlertService(t)
	events := make(chan models.AlertEvent, 3)
	for i := 0; i < 3; i++ {
		events <- testAlert()
	}
	close(events)

	repo.EXPECT().SaveAlertEvent(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	publisher.EXPECT().PublishAlert(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(3)

	service.Run(context.Background(), events)
}

func TestHistory_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultHistoryLimit},
		{name: "within range", limit: 10, want: 10},
		{name: "too large", limit: 1000, want: MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newTestAlertService(t)
			expected := []models.AlertEvent{testAlert()}
			repo.EXPECT().ListRecent(gomock.Any(), tt.want).Return(expected, nil)

			events, err := service.History(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, expected, events)
		})
	}
}

func TestHistory_RepositoryError(t *testing.T) {
	service, repo, _ := newTestAlertService(t)
	repo.EXPECT().ListRecent(gomock.Any(), DefaultHistoryLimit).Return(nil, errors.New("db down"))

	_, err := service.History(context.Background(), 0)
	assert.Error(t, err)
}

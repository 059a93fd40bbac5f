package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/alarm/mocks"
	"github.com/shenikar/danger_zone_alerts/internal/geo"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const waitTimeout = 2 * time.Second

func newTestEngine(t *testing.T) (*Engine, *mocks.MockSink, *clockwork.FakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	clock := clockwork.NewFakeClockAt(testNow)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := New(testConfig(), Deps{Clock: clock, Logger: logger, Sink: sink})
	return e, sink, clock
}

func TestEngine_NotRunning(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, _, err := e.UpdateObserverLocation(ctx, origin.Latitude, origin.Longitude)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.ErrorIs(t, e.SyncIncidents(ctx, nil), ErrNotRunning)
	assert.ErrorIs(t, e.Reclassify(ctx), ErrNotRunning)

	e.Stop()
}

func TestEngine_LifecycleAndStreams(t *testing.T) {
	e, sink, _ := newTestEngine(t)
	ctx := context.Background()
	inc := incidentAt(origin, 5)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Silence(gomock.Any(), inc.ID).Return(nil).Times(1)

	require.NoError(t, e.Start(ctx))
	assert.ErrorIs(t, e.Start(ctx), ErrAlreadyRunning)

	alerts, cancelAlerts := e.SubscribeAlerts(8)
	defer cancelAlerts()
	zones, cancelZones := e.SubscribeZones(8)
	defer cancelZones()

	require.NoError(t, e.SyncIncidents(ctx, []models.Incident{inc}))
	select {
	case set := <-zones:
		require.Len(t, set, 1)
		assert.Equal(t, inc.ID, set[0].ID)
	case <-time.After(waitTimeout):
		t.Fatal("zone set not published")
	}

	loc := geo.Offset(origin, 20, 0)
	next, accepted, err := e.UpdateObserverLocation(ctx, loc.Latitude, loc.Longitude)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Positive(t, next)

	var entry models.AlertEvent
	select {
	case entry = <-alerts:
		assert.Equal(t, models.AlertEntry, entry.Kind)
	case <-time.After(waitTimeout):
		t.Fatal("entry alert not published")
	}

	current, ok, err := e.GetCurrentZone(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, inc.ID, current.ID)

	active, err := e.GetActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	found, err := e.AcknowledgeAlert(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = e.AcknowledgeAlert(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)

	state, err := e.GetOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseInsideAcknowledged, state.Phase())
	assert.True(t, state.AlarmActive, "alarm keeps running after acknowledge")

	e.Stop()

	_, open := <-alerts
	assert.False(t, open, "alert stream closed on stop")
	_, _, err = e.GetCurrentZone(ctx)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.ErrorIs(t, e.Start(ctx), ErrStopped)
}

func TestEngine_AlarmLoopTicks(t *testing.T) {
	e, sink, clock := newTestEngine(t)
	ctx := context.Background()

	played := make(chan alarm.Playback, 8)
	sink.EXPECT().Play(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p alarm.Playback) error {
			played <- p
			return nil
		}).AnyTimes()
	sink.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Silence(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	require.NoError(t, e.Start(ctx))
	defer e.Stop()

	require.NoError(t, e.UpsertIncident(ctx, incidentAt(origin, 5)))
	_, _, err := e.UpdateObserverLocation(ctx, origin.Latitude, origin.Longitude)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		select {
		case p := <-played:
			assert.Equal(t, 2*time.Second, p.Profile.LoopInterval)
		case <-time.After(waitTimeout):
			t.Fatalf("alarm playback %d not triggered", i+1)
		}
		clock.Advance(2 * time.Second)
	}
}

func TestEngine_ReclassifyOnDemand(t *testing.T) {
	e, sink, _ := newTestEngine(t)
	ctx := context.Background()

	// Подготовка
	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Silence(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	require.NoError(t, e.Start(ctx))
	defer e.Stop()

	inc := incidentAt(origin, 5)
	require.NoError(t, e.UpsertIncident(ctx, inc))
	_, _, err := e.UpdateObserverLocation(ctx, origin.Latitude, origin.Longitude)
	require.NoError(t, err)

	// Действие
	require.NoError(t, e.Reclassify(ctx))

	// Проверки
	zones, err := e.GetZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.InDelta(t, 2.4, zones[0].CurrentSeverity, 1e-9)
	assert.Equal(t, models.LevelNeutral, zones[0].Level)
	assert.Equal(t, testNow, zones[0].EvaluatedAt)

	log, err := e.GetAlertLog(ctx)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, models.AlertEntry, log[0].Kind)
	assert.Equal(t, models.AlertLevelChange, log[1].Kind)
}

func TestEngine_RemoveIncidentStopsAlarm(t *testing.T) {
	e, sink, _ := newTestEngine(t)
	ctx := context.Background()
	inc := incidentAt(origin, 4)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sink.EXPECT().Silence(gomock.Any(), inc.ID).Return(nil).Times(1)

	require.NoError(t, e.Start(ctx))
	defer e.Stop()

	require.NoError(t, e.UpsertIncident(ctx, inc))
	_, _, err := e.UpdateObserverLocation(ctx, origin.Latitude, origin.Longitude)
	require.NoError(t, err)

	require.NoError(t, e.RemoveIncident(ctx, inc.ID))

	state, err := e.GetOccupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseOutside, state.Phase())
	assert.False(t, state.AlarmActive)

	log, err := e.GetAlertLog(ctx)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, models.AlertExit, log[1].Kind)

	restarted, err := e.PlaybackEnded(ctx)
	require.NoError(t, err)
	assert.False(t, restarted)
}

func TestEngine_CallHonorsContext(t *testing.T) {
	e, _, _ := newTestEngine(t)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.GetZones(ctx)
	assert.Error(t, err)
}

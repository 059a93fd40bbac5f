package alarm_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/alarm/mocks"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/zone"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestController(t *testing.T, random float64) (*alarm.Controller, *mocks.MockSink, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	clock := clockwork.NewFakeClock()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	opts := alarm.DefaultOptions()
	opts.Random = func() float64 { return random }

	return alarm.NewController(sink, clock, logger, opts), sink, clock
}

func testZone(risk int) *models.DangerZone {
	return &models.DangerZone{
		ID:            uuid.New(),
		Name:          "Test zone",
		RiskLevel:     risk,
		AlertSettings: zone.SettingsForRisk(risk),
	}
}

func TestController_StartPlaysWithProfile(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	z := testZone(5)

	sink.EXPECT().
		Play(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, p alarm.Playback) {
			assert.Equal(t, z.ID, p.ZoneID)
			assert.Equal(t, 2*time.Second, p.Profile.LoopInterval)
			assert.InDelta(t, 1.0, p.Profile.Volume, 1e-9)
		}).Return(nil).Times(1)

	c.Start(context.Background(), z)

	assert.True(t, c.Active())
	assert.True(t, c.Playing())
	assert.NotNil(t, c.C())
	profile, zoneID, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, z.ID, zoneID)
	assert.Equal(t, 5, profile.RiskLevel)
}

func TestController_StartSameZoneIsIdempotent(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	z := testZone(3)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	c.Start(context.Background(), z)
	c.Start(context.Background(), z)
	c.Start(context.Background(), z)

	assert.True(t, c.Active())
}

func TestController_StartOtherZoneSilencesPrevious(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	first, second := testZone(2), testZone(4)

	gomock.InOrder(
		sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil),
		sink.EXPECT().Silence(gomock.Any(), first.ID).Return(nil),
		sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil),
	)

	c.Start(context.Background(), first)
	c.Start(context.Background(), second)

	_, zoneID, _ := c.Current()
	assert.Equal(t, second.ID, zoneID)
}

func TestController_TickVibratesByProbability(t *testing.T) {
	c, sink, _ := newTestController(t, 0.1)
	z := testZone(4)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	sink.EXPECT().Vibrate(gomock.Any(), z.ID, z.AlertSettings.VibrationPattern).Return(nil).Times(2)

	c.Start(context.Background(), z)
	c.Tick(context.Background())
}

func TestController_NoVibrationAboveProbability(t *testing.T) {
	c, sink, _ := newTestController(t, 0.4)
	z := testZone(4)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	sink.EXPECT().Vibrate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	c.Start(context.Background(), z)
	c.Tick(context.Background())
}

func TestController_SelfHealsAfterPlaybackFailure(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	z := testZone(2)

	gomock.InOrder(
		sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(errors.New("audio device busy")),
		sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil),
	)

	c.Start(context.Background(), z)
	assert.True(t, c.Active())
	assert.False(t, c.Playing())

	assert.True(t, c.EnsureRunning(context.Background()))
	assert.True(t, c.Playing())
	assert.False(t, c.EnsureRunning(context.Background()))
}

func TestController_PlaybackEndedRestarts(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	assert.False(t, c.PlaybackEnded(context.Background()), "inactive alarm is not restarted")

	c.Start(context.Background(), testZone(1))
	assert.True(t, c.PlaybackEnded(context.Background()))
}

func TestController_StopIsIdempotent(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	z := testZone(5)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil)
	sink.EXPECT().Silence(gomock.Any(), z.ID).Return(errors.New("sink offline")).Times(1)

	c.Stop(context.Background())
	c.Start(context.Background(), z)
	c.Stop(context.Background())
	c.Stop(context.Background())

	assert.False(t, c.Active())
	assert.Nil(t, c.C())
	c.Tick(context.Background())
}

func TestController_TickerFollowsLoopInterval(t *testing.T) {
	c, sink, clock := newTestController(t, 0.99)

	sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	c.Start(context.Background(), testZone(5))
	ch := c.C()

	clock.Advance(time.Second)
	select {
	case <-ch:
		t.Fatal("tick before loop interval")
	default:
	}

	clock.Advance(time.Second)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected tick after loop interval")
	}
}

func TestController_NotifyRespectsPushSettings(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	event := models.AlertEvent{ID: uuid.New(), Kind: models.AlertEntry, RiskLevel: 5}

	sink.EXPECT().Notify(gomock.Any(), event, alarm.PriorityMax).Return(nil).Times(1)

	c.Notify(context.Background(), event, zone.SettingsForRisk(5))
	c.Notify(context.Background(), event, zone.SettingsForRisk(1))
}

func TestController_RiskChangeRestartsWithNewProfile(t *testing.T) {
	c, sink, _ := newTestController(t, 0.99)
	z := testZone(2)

	gomock.InOrder(
		sink.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil),
		sink.EXPECT().Silence(gomock.Any(), z.ID).Return(nil),
		sink.EXPECT().Play(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, p alarm.Playback) {
				assert.Equal(t, 4*time.Second, p.Profile.LoopInterval)
			}).Return(nil),
	)

	c.Start(context.Background(), z)
	updated := *z
	updated.RiskLevel = 4
	c.Start(context.Background(), &updated)
}

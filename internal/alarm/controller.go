package alarm

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/sirupsen/logrus"
)

// Playback - один запуск звукового сигнала
type Playback struct {
	ZoneID   uuid.UUID `json:"zone_id"`
	ZoneName string    `json:"zone_name"`
	Profile  Profile   `json:"profile"`
}

// Sink - внешний получатель сигналов (звук, вибрация, уведомления)
//
//go:generate mockgen -source=controller.go -destination=mocks/mock_sink.go -package=mocks
type Sink interface {
	Play(ctx context.Context, playback Playback) error
	Vibrate(ctx context.Context, zoneID uuid.UUID, pattern []time.Duration) error
	Notify(ctx context.Context, event models.AlertEvent, priority Priority) error
	Silence(ctx context.Context, zoneID uuid.UUID) error
}

// Options - глобальные переключатели модальностей
type Options struct {
	SoundEnabled     bool
	VibrationEnabled bool
	PushEnabled      bool
	SinkTimeout      time.Duration
	// Random возвращает число в [0,1), по умолчанию math/rand/v2
	Random func() float64
}

// DefaultOptions - все модальности включены
func DefaultOptions() Options {
	return Options{
		SoundEnabled:     true,
		VibrationEnabled: true,
		PushEnabled:      true,
		SinkTimeout:      2 * time.Second,
	}
}

// Controller владеет не более чем одним активным сигналом.
// Не потокобезопасен: все вызовы должны идти из цикла движка.
type Controller struct {
	sink   Sink
	clock  clockwork.Clock
	logger *logrus.Logger
	opts   Options

	active    bool
	playing   bool
	zone      models.DangerZone
	profile   Profile
	ticker    clockwork.Ticker
	startedAt time.Time
	ticks     int
}

// NewController создает контроллер сигнала
func NewController(sink Sink, clock clockwork.Clock, logger *logrus.Logger, opts Options) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.SinkTimeout <= 0 {
		opts.SinkTimeout = 2 * time.Second
	}
	if opts.Random == nil {
		opts.Random = rand.Float64
	}
	return &Controller{
		sink:   sink,
		clock:  clock,
		logger: logger,
		opts:   opts,
	}
}

// Start запускает сигнал для зоны. Повторный вызов для той же зоны с тем же
// уровнем риска не перезапускает цикл.
func (c *Controller) Start(ctx context.Context, z *models.DangerZone) {
	if c.active && c.zone.ID == z.ID && c.profile.RiskLevel == ProfileFor(z.RiskLevel).RiskLevel {
		c.EnsureRunning(ctx)
		return
	}
	c.Stop(ctx)

	c.active = true
	c.zone = *z
	c.profile = ProfileFor(z.RiskLevel)
	c.startedAt = c.clock.Now()
	c.ticks = 0
	c.ticker = c.clock.NewTicker(c.profile.LoopInterval)

	c.logger.WithFields(logrus.Fields{
		"component":     "alarm",
		"zone_id":       z.ID,
		"risk_level":    c.profile.RiskLevel,
		"loop_interval": c.profile.LoopInterval,
		"volume":        c.profile.Volume,
	}).Info("Alarm started")

	c.trigger(ctx)
}

// Tick - очередной такт цикла сигнала
func (c *Controller) Tick(ctx context.Context) {
	if !c.active {
		return
	}
	c.trigger(ctx)
}

// EnsureRunning перезапускает воспроизведение, если оно неожиданно прекратилось.
// Возвращает true, если перезапуск был выполнен.
func (c *Controller) EnsureRunning(ctx context.Context) bool {
	if !c.active || c.playing {
		return false
	}
	c.logger.WithField("zone_id", c.zone.ID).Warn("Alarm playback stopped unexpectedly, restarting")
	c.ticker.Reset(c.profile.LoopInterval)
	c.trigger(ctx)
	return true
}

// PlaybackEnded - потребитель сообщил об окончании воспроизведения
func (c *Controller) PlaybackEnded(ctx context.Context) bool {
	if !c.active {
		return false
	}
	c.playing = false
	return c.EnsureRunning(ctx)
}

// Stop останавливает сигнал. Безопасен в любом состоянии.
func (c *Controller) Stop(ctx context.Context) {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if !c.active {
		return
	}

	zoneID := c.zone.ID
	c.active = false
	c.playing = false
	c.zone = models.DangerZone{}

	sinkCtx, cancel := context.WithTimeout(ctx, c.opts.SinkTimeout)
	defer cancel()
	if err := c.sink.Silence(sinkCtx, zoneID); err != nil {
		c.logger.WithError(err).WithField("zone_id", zoneID).Warn("Failed to silence alarm")
	}
	c.logger.WithFields(logrus.Fields{
		"component": "alarm",
		"zone_id":   zoneID,
		"ticks":     c.ticks,
		"duration":  c.clock.Since(c.startedAt),
	}).Info("Alarm stopped")
}

// Notify отправляет push-уведомление о событии, если push разрешён
func (c *Controller) Notify(ctx context.Context, event models.AlertEvent, settings models.AlertSettings) {
	if !c.opts.PushEnabled || !settings.PushEnabled {
		return
	}
	sinkCtx, cancel := context.WithTimeout(ctx, c.opts.SinkTimeout)
	defer cancel()
	if err := c.sink.Notify(sinkCtx, event, ProfileFor(event.RiskLevel).Priority); err != nil {
		c.logger.WithError(err).WithField("alert_id", event.ID).Warn("Failed to send push notification")
	}
}

// C возвращает канал тактов цикла; nil, если сигнал не активен
func (c *Controller) C() <-chan time.Time {
	if !c.active || c.ticker == nil {
		return nil
	}
	return c.ticker.Chan()
}

// Active сообщает, активен ли сигнал
func (c *Controller) Active() bool {
	return c.active
}

// Playing сообщает, идёт ли воспроизведение активного сигнала
func (c *Controller) Playing() bool {
	return c.active && c.playing
}

// Current возвращает профиль и зону активного сигнала
func (c *Controller) Current() (Profile, uuid.UUID, bool) {
	if !c.active {
		return Profile{}, uuid.Nil, false
	}
	return c.profile, c.zone.ID, true
}

func (c *Controller) trigger(ctx context.Context) {
	c.ticks++
	sinkCtx, cancel := context.WithTimeout(ctx, c.opts.SinkTimeout)
	defer cancel()

	if c.opts.SoundEnabled && c.zone.AlertSettings.SoundEnabled {
		err := c.sink.Play(sinkCtx, Playback{ZoneID: c.zone.ID, ZoneName: c.zone.Name, Profile: c.profile})
		if err != nil {
			c.playing = false
			c.logger.WithError(err).WithField("zone_id", c.zone.ID).Warn("Alarm playback failed")
		} else {
			c.playing = true
		}
	} else {
		c.playing = true
	}

	if c.opts.VibrationEnabled && c.zone.AlertSettings.VibrationEnabled && c.opts.Random() < c.profile.VibrationProbability {
		if err := c.sink.Vibrate(sinkCtx, c.zone.ID, c.profile.VibrationPattern); err != nil {
			c.logger.WithError(err).WithField("zone_id", c.zone.ID).Warn("Alarm vibration failed")
		}
	}
}

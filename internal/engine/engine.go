package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/cooldown"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/observability"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning = errors.New("engine already running")
	ErrNotRunning     = errors.New("engine is not running")
	ErrStopped        = errors.New("engine stopped")
)

// Deps - внешние зависимости движка
type Deps struct {
	Clock   clockwork.Clock
	Logger  *logrus.Logger
	Sink    alarm.Sink
	Limiter cooldown.Limiter
	Metrics *observability.Metrics
}

// Engine - единственный владелец набора зон и состояния нахождения.
// Все изменения проходят через почтовый ящик и выполняются в одной горутине:
// отметки местоположения, события ленты инцидентов и оба таймера переоценки.
type Engine struct {
	cfg     Config
	clock   clockwork.Clock
	logger  *logrus.Logger
	machine *Machine
	mailbox chan func(ctx context.Context)

	alerts *Broadcaster[models.AlertEvent]
	zones  *Broadcaster[[]models.DangerZone]

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// New создает движок
func New(cfg Config, deps Deps) *Engine {
	cfg = cfg.withDefaults()
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetricsForTesting()
	}
	onDrop := func() { deps.Metrics.StreamDrops.Inc() }

	e := &Engine{
		cfg:     cfg,
		clock:   deps.Clock,
		logger:  deps.Logger,
		machine: NewMachine(cfg, deps.Clock, deps.Logger, deps.Sink, deps.Limiter, deps.Metrics),
		mailbox: make(chan func(ctx context.Context), cfg.MailboxSize),
		alerts:  NewBroadcaster[models.AlertEvent](onDrop),
		zones:   NewBroadcaster[[]models.DangerZone](onDrop),
	}
	e.machine.SetListeners(e.alerts.Publish, e.zones.Publish)
	return e
}

// Start запускает цикл обработки событий
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	if e.cancel != nil {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done

	go e.run(loopCtx, done)

	e.logger.WithFields(logrus.Fields{
		"component":            "engine",
		"severity_interval":    e.cfg.SeverityInterval,
		"level_check_interval": e.cfg.LevelCheckInterval,
		"proximity_mode":       e.cfg.ProximityMode,
	}).Info("Zone engine started")
	return nil
}

// Stop останавливает цикл, таймеры и сигнал и закрывает подписки.
// После возврата ни один таймер не срабатывает; повторный Start невозможен.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel = nil
	e.stopped = true
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	e.alerts.Close()
	e.zones.Close()
	e.logger.WithField("component", "engine").Info("Zone engine stopped")
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	severity := e.clock.NewTicker(e.cfg.SeverityInterval)
	defer severity.Stop()
	levelCheck := e.clock.NewTicker(e.cfg.LevelCheckInterval)
	defer levelCheck.Stop()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.Alarm.SinkTimeout)
		defer cancel()
		e.machine.Shutdown(shutdownCtx)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.mailbox:
			cmd(ctx)
		case <-severity.Chan():
			e.machine.Reclassify(ctx)
		case <-levelCheck.Chan():
			e.machine.CheckLevelChanges(ctx)
		case <-e.machine.AlarmC():
			e.machine.AlarmTick(ctx)
		}
	}
}

// call выполняет fn в цикле движка и ждёт завершения
func (e *Engine) call(ctx context.Context, fn func(ctx context.Context)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	done, running := e.done, e.cancel != nil
	e.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	reply := make(chan struct{})
	cmd := func(loopCtx context.Context) {
		defer close(reply)
		fn(loopCtx)
	}

	select {
	case e.mailbox <- cmd:
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-reply:
		return nil
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateObserverLocation передаёт отметку местоположения наблюдателя.
// Возвращает рекомендуемый интервал до следующей отметки; accepted=false для непригодных координат.
func (e *Engine) UpdateObserverLocation(ctx context.Context, lat, lng float64) (next time.Duration, accepted bool, err error) {
	err = e.call(ctx, func(ctx context.Context) {
		next, accepted = e.machine.UpdateLocation(ctx, models.Location{Latitude: lat, Longitude: lng})
	})
	return next, accepted, err
}

// GetCurrentZone возвращает зону, в которой находится наблюдатель
func (e *Engine) GetCurrentZone(ctx context.Context) (zone models.DangerZone, ok bool, err error) {
	err = e.call(ctx, func(context.Context) {
		zone, ok = e.machine.CurrentZone()
	})
	return zone, ok, err
}

// GetZones возвращает текущий набор зон
func (e *Engine) GetZones(ctx context.Context) (zones []models.DangerZone, err error) {
	err = e.call(ctx, func(context.Context) {
		zones = e.machine.Zones()
	})
	return zones, err
}

// GetActiveAlerts возвращает неподтверждённые оповещения
func (e *Engine) GetActiveAlerts(ctx context.Context) (alerts []models.AlertEvent, err error) {
	err = e.call(ctx, func(context.Context) {
		alerts = e.machine.ActiveAlerts()
	})
	return alerts, err
}

// GetAlertLog возвращает журнал последних оповещений, включая подтверждённые
func (e *Engine) GetAlertLog(ctx context.Context) (alerts []models.AlertEvent, err error) {
	err = e.call(ctx, func(context.Context) {
		alerts = e.machine.AlertLog()
	})
	return alerts, err
}

// GetOccupancy возвращает состояние нахождения наблюдателя
func (e *Engine) GetOccupancy(ctx context.Context) (state models.ZoneOccupancyState, err error) {
	err = e.call(ctx, func(context.Context) {
		state = e.machine.Occupancy()
	})
	return state, err
}

// AcknowledgeAlert подтверждает оповещение; found=false, если оповещение не активно
func (e *Engine) AcknowledgeAlert(ctx context.Context, id uuid.UUID) (found bool, err error) {
	err = e.call(ctx, func(context.Context) {
		found = e.machine.Acknowledge(id)
	})
	return found, err
}

// PlaybackEnded - потребитель сообщил об окончании воспроизведения сигнала
func (e *Engine) PlaybackEnded(ctx context.Context) (restarted bool, err error) {
	err = e.call(ctx, func(ctx context.Context) {
		restarted = e.machine.PlaybackEnded(ctx)
	})
	return restarted, err
}

// SyncIncidents применяет полный снимок инцидентов
func (e *Engine) SyncIncidents(ctx context.Context, incidents []models.Incident) error {
	return e.call(ctx, func(ctx context.Context) {
		e.machine.SyncIncidents(ctx, incidents)
	})
}

// UpsertIncident добавляет или обновляет инцидент
func (e *Engine) UpsertIncident(ctx context.Context, incident models.Incident) error {
	return e.call(ctx, func(ctx context.Context) {
		e.machine.UpsertIncident(ctx, incident)
	})
}

// RemoveIncident удаляет инцидент
func (e *Engine) RemoveIncident(ctx context.Context, id uuid.UUID) error {
	return e.call(ctx, func(ctx context.Context) {
		e.machine.RemoveIncident(ctx, id)
	})
}

// Reclassify пересчитывает тяжесть всех зон вне расписания
func (e *Engine) Reclassify(ctx context.Context) error {
	return e.call(ctx, func(ctx context.Context) {
		e.machine.Reclassify(ctx)
	})
}

// SubscribeAlerts подписывает на поток оповещений
func (e *Engine) SubscribeAlerts(buffer int) (<-chan models.AlertEvent, func()) {
	return e.alerts.Subscribe(buffer)
}

// SubscribeZones подписывает на изменения набора зон
func (e *Engine) SubscribeZones(buffer int) (<-chan []models.DangerZone, func()) {
	return e.zones.Subscribe(buffer)
}

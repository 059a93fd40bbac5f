package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/cooldown"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/observability"
	"github.com/shenikar/danger_zone_alerts/internal/zone"
	"github.com/sirupsen/logrus"
)

// Machine - однопоточный автомат переходов между зонами.
// Владеет набором зон, состоянием нахождения и сигналом.
// Не потокобезопасен: вызывается только из цикла Engine или из тестов.
type Machine struct {
	cfg     Config
	clock   clockwork.Clock
	logger  *logrus.Logger
	metrics *observability.Metrics

	builder    *zone.Builder
	classifier *zone.Classifier
	detector   *zone.Detector
	alarm      *alarm.Controller
	limiter    cooldown.Limiter
	tracker    *Tracker

	incidents map[uuid.UUID]models.Incident
	zones     map[uuid.UUID]*models.DangerZone
	order     []uuid.UUID
	changed   map[uuid.UUID]struct{}

	occupancy   models.ZoneOccupancyState
	currentZone models.DangerZone
	observer    *models.LocationSample

	active []models.AlertEvent
	log    []models.AlertEvent

	onAlert func(models.AlertEvent)
	onZones func([]models.DangerZone)
}

// NewMachine создает автомат. limiter может быть nil - тогда используется
// множество с истечением в памяти.
func NewMachine(cfg Config, clock clockwork.Clock, logger *logrus.Logger, sink alarm.Sink, limiter cooldown.Limiter, metrics *observability.Metrics) *Machine {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if limiter == nil {
		limiter = cooldown.NewExpiringSet(clock, cfg.Cooldown)
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}

	return &Machine{
		cfg:        cfg,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		builder:    zone.NewBuilder(cfg.RadiusBase),
		classifier: zone.NewClassifier(clock, cfg.TimeZone),
		detector:   zone.NewDetector(cfg.ProximityMode, cfg.MinRiskLevel),
		alarm:      alarm.NewController(sink, clock, logger, cfg.Alarm),
		limiter:    limiter,
		tracker:    NewTracker(cfg.BatteryOptimized),
		incidents:  make(map[uuid.UUID]models.Incident),
		zones:      make(map[uuid.UUID]*models.DangerZone),
		changed:    make(map[uuid.UUID]struct{}),
	}
}

// SetListeners задаёт получателей событий и изменений набора зон
func (m *Machine) SetListeners(onAlert func(models.AlertEvent), onZones func([]models.DangerZone)) {
	m.onAlert = onAlert
	m.onZones = onZones
}

// SyncIncidents заменяет набор инцидентов полным снимком источника.
// Зоны исчезнувших инцидентов удаляются, текущая зона при этом покидается принудительно.
func (m *Machine) SyncIncidents(ctx context.Context, incidents []models.Incident) {
	nextIncidents := make(map[uuid.UUID]models.Incident, len(incidents))
	nextZones := make(map[uuid.UUID]*models.DangerZone, len(incidents))
	nextOrder := make([]uuid.UUID, 0, len(incidents))

	for _, inc := range incidents {
		if !inc.Validated {
			continue
		}
		z, ok := m.buildZone(inc)
		if !ok {
			continue
		}
		if _, dup := nextZones[inc.ID]; !dup {
			nextOrder = append(nextOrder, inc.ID)
		}
		nextIncidents[inc.ID] = inc
		nextZones[inc.ID] = z
	}

	m.incidents = nextIncidents
	m.zones = nextZones
	m.order = nextOrder
	for id := range m.changed {
		if _, ok := m.zones[id]; !ok {
			delete(m.changed, id)
		}
	}

	m.logger.WithFields(logrus.Fields{
		"component": "engine",
		"method":    "SyncIncidents",
		"received":  len(incidents),
		"zones":     len(m.zones),
	}).Debug("Incident snapshot applied")

	m.afterZoneRefresh(ctx)
}

// UpsertIncident добавляет или обновляет один инцидент.
// Неподтверждённый инцидент или инцидент без координат удаляет зону.
func (m *Machine) UpsertIncident(ctx context.Context, inc models.Incident) {
	if !inc.Validated {
		m.RemoveIncident(ctx, inc.ID)
		return
	}
	z, ok := m.buildZone(inc)
	if !ok {
		m.RemoveIncident(ctx, inc.ID)
		return
	}

	if prev, exists := m.zones[inc.ID]; exists {
		// сохраняем текущую оценку тяжести, если уровень риска не менялся
		if prev.RiskLevel == z.RiskLevel {
			z.CurrentSeverity = prev.CurrentSeverity
			z.Level = prev.Level
			z.EvaluatedAt = prev.EvaluatedAt
		}
	} else {
		m.order = append(m.order, inc.ID)
	}
	m.incidents[inc.ID] = inc
	m.zones[inc.ID] = z

	if m.isCurrent(inc.ID) {
		prevLevel := m.currentZone.Level
		m.currentZone = *z
		m.alarm.Start(ctx, z)
		m.syncAlarmState()
		if z.Level != prevLevel && m.raiseLevelChange(ctx, z) {
			m.changed[inc.ID] = struct{}{}
		}
	}

	m.afterZoneRefresh(ctx)
}

// RemoveIncident удаляет инцидент и его зону
func (m *Machine) RemoveIncident(ctx context.Context, id uuid.UUID) {
	if _, ok := m.zones[id]; !ok {
		delete(m.incidents, id)
		return
	}
	delete(m.incidents, id)
	delete(m.zones, id)
	delete(m.changed, id)
	for i, zoneID := range m.order {
		if zoneID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.afterZoneRefresh(ctx)
}

// UpdateLocation обрабатывает новую отметку местоположения наблюдателя.
// Возвращает рекомендуемый интервал до следующей отметки и false для непригодных координат.
func (m *Machine) UpdateLocation(ctx context.Context, loc models.Location) (time.Duration, bool) {
	if !loc.Valid() {
		m.metrics.LocationSamples.WithLabelValues("rejected").Inc()
		m.logger.WithFields(logrus.Fields{
			"component": "engine",
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
		}).Warn("Ignoring observer location with invalid coordinates")
		return m.tracker.Interval(), false
	}
	m.metrics.LocationSamples.WithLabelValues("accepted").Inc()

	m.observer = &models.LocationSample{Location: loc, ReceivedAt: m.clock.Now()}
	interval := m.tracker.Observe(loc)
	m.evaluate(ctx, loc)
	return interval, true
}

// Acknowledge подтверждает оповещение. Подтверждение события текущей зоны
// подавляет визуальное оповещение о входе до выхода из неё; сигнал продолжает работать.
func (m *Machine) Acknowledge(alertID uuid.UUID) bool {
	for i, event := range m.active {
		if event.ID != alertID {
			continue
		}
		m.active = append(m.active[:i], m.active[i+1:]...)
		if m.isCurrent(event.ZoneID) {
			m.occupancy.Acknowledged = true
		}
		m.logger.WithFields(logrus.Fields{
			"component": "engine",
			"alert_id":  alertID,
			"zone_id":   event.ZoneID,
			"kind":      event.Kind,
		}).Info("Alert acknowledged")
		return true
	}
	return false
}

// PlaybackEnded - потребитель сообщил, что воспроизведение закончилось
func (m *Machine) PlaybackEnded(ctx context.Context) bool {
	if m.occupancy.CurrentZoneID == nil {
		return false
	}
	restarted := m.alarm.PlaybackEnded(ctx)
	m.syncAlarmState()
	return restarted
}

// AlarmTick - такт цикла сигнала
func (m *Machine) AlarmTick(ctx context.Context) {
	if m.occupancy.CurrentZoneID == nil {
		m.alarm.Stop(ctx)
		m.syncAlarmState()
		return
	}
	m.alarm.Tick(ctx)
}

// AlarmC - канал тактов активного сигнала, nil если сигнала нет
func (m *Machine) AlarmC() <-chan time.Time {
	return m.alarm.C()
}

// Reclassify пересчитывает тяжесть и уровень всех зон.
// Для текущей зоны изменение уровня сразу порождает level_change.
func (m *Machine) Reclassify(ctx context.Context) {
	if len(m.zones) == 0 {
		return
	}
	incidents := m.incidentList()
	changed := 0
	for _, id := range m.order {
		z := m.zones[id]
		if !m.classifier.Apply(z, incidents) {
			continue
		}
		changed++
		if m.isCurrent(id) {
			m.currentZone = *z
			if !m.raiseLevelChange(ctx, z) {
				continue
			}
		}
		m.changed[id] = struct{}{}
	}

	m.logger.WithFields(logrus.Fields{
		"component": "engine",
		"method":    "Reclassify",
		"zones":     len(m.zones),
		"changed":   changed,
	}).Info("Zone severity re-evaluated")

	if changed > 0 {
		m.publishZones()
	}
}

// CheckLevelChanges проверяет, не попадает ли последняя известная точка наблюдателя
// в зону, уровень которой изменился с прошлой проверки.
// Отложенное из-за cooldown уведомление о текущей зоне повторяется на следующей проверке.
func (m *Machine) CheckLevelChanges(ctx context.Context) {
	if len(m.changed) == 0 {
		return
	}
	changed := m.changed
	m.changed = make(map[uuid.UUID]struct{})
	if m.observer == nil {
		return
	}
	match, ok := m.detector.FindOccupiedZone(m.observer.Location, m.zoneList())
	if !ok {
		return
	}
	if _, ok := changed[match.Zone.ID]; !ok {
		return
	}
	if !m.isCurrent(match.Zone.ID) {
		m.evaluate(ctx, m.observer.Location)
		return
	}
	m.currentZone = *match.Zone
	if m.raiseLevelChange(ctx, match.Zone) {
		m.changed[match.Zone.ID] = struct{}{}
	}
}

// Shutdown останавливает сигнал
func (m *Machine) Shutdown(ctx context.Context) {
	m.alarm.Stop(ctx)
	m.syncAlarmState()
}

// CurrentZone возвращает копию текущей зоны
func (m *Machine) CurrentZone() (models.DangerZone, bool) {
	if m.occupancy.CurrentZoneID == nil {
		return models.DangerZone{}, false
	}
	return cloneZone(&m.currentZone), true
}

// Zones возвращает копию набора зон в порядке поступления
func (m *Machine) Zones() []models.DangerZone {
	out := make([]models.DangerZone, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneZone(m.zones[id]))
	}
	return out
}

// ActiveAlerts возвращает неподтверждённые оповещения, старые первыми
func (m *Machine) ActiveAlerts() []models.AlertEvent {
	return append([]models.AlertEvent(nil), m.active...)
}

// AlertLog возвращает журнал последних оповещений
func (m *Machine) AlertLog() []models.AlertEvent {
	return append([]models.AlertEvent(nil), m.log...)
}

// Occupancy возвращает копию состояния нахождения
func (m *Machine) Occupancy() models.ZoneOccupancyState {
	s := m.occupancy
	if s.CurrentZoneID != nil {
		id := *s.CurrentZoneID
		s.CurrentZoneID = &id
	}
	if s.PreviousZoneID != nil {
		id := *s.PreviousZoneID
		s.PreviousZoneID = &id
	}
	return s
}

// NextSampleInterval - рекомендуемый интервал до следующей отметки местоположения
func (m *Machine) NextSampleInterval() time.Duration {
	return m.tracker.Interval()
}

func (m *Machine) evaluate(ctx context.Context, loc models.Location) {
	match, inside := m.detector.FindOccupiedZone(loc, m.zoneList())
	current := m.occupancy.CurrentZoneID

	switch {
	case inside && current != nil && *current == match.Zone.ID:
		// повторная отметка внутри той же зоны
		if m.alarm.EnsureRunning(ctx) {
			m.logger.WithField("zone_id", match.Zone.ID).Info("Alarm restarted for current zone")
		}
		m.syncAlarmState()
	case inside:
		if current != nil {
			m.exit(ctx, &loc)
		}
		m.enter(ctx, match, loc)
	case current != nil:
		m.exit(ctx, &loc)
		m.checkNearby(ctx, loc)
	default:
		m.checkNearby(ctx, loc)
	}
}

func (m *Machine) enter(ctx context.Context, match zone.Match, loc models.Location) {
	z := match.Zone
	id := z.ID
	m.occupancy.CurrentZoneID = &id
	m.occupancy.EnteredAt = m.clock.Now()
	m.occupancy.Acknowledged = false
	m.currentZone = *z
	delete(m.changed, id)

	m.alarm.Start(ctx, z)
	m.syncAlarmState()
	m.metrics.ObserverInside.Set(1)

	m.logger.WithFields(logrus.Fields{
		"component":  "engine",
		"zone_id":    id,
		"zone_name":  z.Name,
		"risk_level": z.RiskLevel,
		"distance_m": match.Distance,
	}).Info("Observer entered danger zone")

	m.emit(ctx, m.newEvent(models.AlertEntry, z, &loc))
}

func (m *Machine) exit(ctx context.Context, loc *models.Location) {
	if m.occupancy.CurrentZoneID == nil {
		return
	}
	z := m.currentZone
	prev := *m.occupancy.CurrentZoneID

	m.alarm.Stop(ctx)
	m.occupancy.PreviousZoneID = &prev
	m.occupancy.CurrentZoneID = nil
	m.occupancy.Acknowledged = false
	m.occupancy.EnteredAt = time.Time{}
	m.currentZone = models.DangerZone{}
	m.syncAlarmState()
	m.metrics.ObserverInside.Set(0)
	m.dropActiveForZone(prev)

	m.logger.WithFields(logrus.Fields{
		"component": "engine",
		"zone_id":   prev,
		"zone_name": z.Name,
	}).Info("Observer left danger zone")

	m.emit(ctx, m.newEvent(models.AlertExit, &z, loc))
}

func (m *Machine) checkNearby(ctx context.Context, loc models.Location) {
	match, ok := m.detector.FindNearbyZone(loc, m.zoneList(), m.cfg.NearbyFactor)
	if !ok {
		return
	}
	if !m.limiter.Allow(ctx, cooldown.Key(models.AlertNearby, match.Zone.ID)) {
		m.metrics.AlertsSuppressed.WithLabelValues(string(models.AlertNearby)).Inc()
		return
	}
	m.emit(ctx, m.newEvent(models.AlertNearby, match.Zone, &loc))
}

// raiseLevelChange возвращает true, если уведомление отложено из-за cooldown
func (m *Machine) raiseLevelChange(ctx context.Context, z *models.DangerZone) (deferred bool) {
	if m.occupancy.Acknowledged && !m.cfg.LevelChangeWhenAcknowledged {
		return false
	}
	if !m.limiter.Allow(ctx, cooldown.Key(models.AlertLevelChange, z.ID)) {
		m.metrics.AlertsSuppressed.WithLabelValues(string(models.AlertLevelChange)).Inc()
		return true
	}
	var loc *models.Location
	if m.observer != nil {
		l := m.observer.Location
		loc = &l
	}
	m.emit(ctx, m.newEvent(models.AlertLevelChange, z, loc))
	return false
}

// afterZoneRefresh выполняется после каждого изменения набора зон
func (m *Machine) afterZoneRefresh(ctx context.Context) {
	m.metrics.ZonesTracked.Set(float64(len(m.zones)))

	if current := m.occupancy.CurrentZoneID; current != nil {
		if _, ok := m.zones[*current]; !ok {
			m.logger.WithField("zone_id", *current).Info("Current zone removed from feed, forcing exit")
			var loc *models.Location
			if m.observer != nil {
				l := m.observer.Location
				loc = &l
			}
			m.exit(ctx, loc)
		}
	}

	if m.observer != nil {
		m.evaluate(ctx, m.observer.Location)
	}
	m.publishZones()
}

func (m *Machine) emit(ctx context.Context, event models.AlertEvent) {
	m.log = append(m.log, event)
	if over := len(m.log) - m.cfg.AlertLogSize; over > 0 {
		m.log = append(m.log[:0:0], m.log[over:]...)
	}
	m.active = append(m.active, event)
	if over := len(m.active) - m.cfg.MaxActiveAlerts; over > 0 {
		m.active = append(m.active[:0:0], m.active[over:]...)
	}
	m.metrics.AlertsEmitted.WithLabelValues(string(event.Kind)).Inc()

	if event.Kind != models.AlertExit {
		settings := zone.SettingsForRisk(event.RiskLevel)
		if z, ok := m.zones[event.ZoneID]; ok {
			settings = z.AlertSettings
		}
		m.alarm.Notify(ctx, event, settings)
	}

	if m.onAlert != nil {
		m.onAlert(event)
	}
}

func (m *Machine) newEvent(kind models.AlertKind, z *models.DangerZone, loc *models.Location) models.AlertEvent {
	var location *models.Location
	if loc != nil {
		l := *loc
		location = &l
	}
	return models.AlertEvent{
		ID:              uuid.New(),
		Kind:            kind,
		ZoneID:          z.ID,
		ZoneName:        z.Name,
		RiskLevel:       z.RiskLevel,
		Level:           z.Level,
		Message:         alertMessage(kind, z),
		Recommendations: recommendations(kind, z),
		Timestamp:       m.clock.Now(),
		Location:        location,
	}
}

func (m *Machine) buildZone(inc models.Incident) (*models.DangerZone, bool) {
	z, ok := m.builder.Build(inc)
	if !ok {
		m.metrics.IncidentsRejected.Inc()
		loc, hasLocation := inc.Location()
		m.logger.WithFields(logrus.Fields{
			"component":    "engine",
			"incident_id":  inc.ID,
			"has_location": hasLocation,
			"latitude":     loc.Latitude,
			"longitude":    loc.Longitude,
		}).Warn("Skipping incident without usable coordinates")
		return nil, false
	}
	return z, true
}

func (m *Machine) dropActiveForZone(id uuid.UUID) {
	kept := m.active[:0]
	for _, event := range m.active {
		if event.ZoneID != id {
			kept = append(kept, event)
		}
	}
	m.active = kept
}

func (m *Machine) syncAlarmState() {
	m.occupancy.AlarmActive = m.alarm.Active()
	if m.occupancy.AlarmActive {
		m.metrics.AlarmActive.Set(1)
	} else {
		m.metrics.AlarmActive.Set(0)
	}
}

func (m *Machine) publishZones() {
	if m.onZones != nil {
		m.onZones(m.Zones())
	}
}

func (m *Machine) isCurrent(id uuid.UUID) bool {
	return m.occupancy.CurrentZoneID != nil && *m.occupancy.CurrentZoneID == id
}

func (m *Machine) zoneList() []*models.DangerZone {
	out := make([]*models.DangerZone, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.zones[id])
	}
	return out
}

func (m *Machine) incidentList() []models.Incident {
	out := make([]models.Incident, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.incidents[id])
	}
	return out
}

func cloneZone(z *models.DangerZone) models.DangerZone {
	c := *z
	c.Polygon = append([]models.Location(nil), z.Polygon...)
	c.AlertSettings.VibrationPattern = append([]time.Duration(nil), z.AlertSettings.VibrationPattern...)
	return c
}

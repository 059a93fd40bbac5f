package zone

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/danger_zone_alerts/internal/geo"
	"github.com/shenikar/danger_zone_alerts/internal/models"
)

const (
	timeSlotWeight  = 0.3
	incidentWeight  = 0.25
	frequencyWeight = 0.25

	// DefaultRecencyWindow - учитываются инциденты не старше суток
	DefaultRecencyWindow = 24 * time.Hour
)

// TimeSlot - интервал часов [StartHour, EndHour). Если EndHour <= StartHour, интервал переходит через полночь.
type TimeSlot struct {
	Name      string
	StartHour int
	EndHour   int
}

const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
	SlotNight     = "night"
)

// DefaultTimeSlots - разбиение суток на интервалы
var DefaultTimeSlots = []TimeSlot{
	{Name: SlotMorning, StartHour: 6, EndHour: 12},
	{Name: SlotAfternoon, StartHour: 12, EndHour: 18},
	{Name: SlotEvening, StartHour: 18, EndHour: 22},
	{Name: SlotNight, StartHour: 22, EndHour: 6},
}

// Contains сообщает, попадает ли час в интервал
func (s TimeSlot) Contains(hour int) bool {
	if s.StartHour < s.EndHour {
		return hour >= s.StartHour && hour < s.EndHour
	}
	return hour >= s.StartHour || hour < s.EndHour
}

// Assessment - результат оценки зоны
type Assessment struct {
	Severity float64
	Level    models.Level
}

// Classifier вычисляет текущую тяжесть зоны и её уровень
type Classifier struct {
	clock    clockwork.Clock
	slots    []TimeSlot
	recency  time.Duration
	location *time.Location
}

// NewClassifier создает классификатор. Часы суток берутся в часовом поясе loc (nil - time.Local).
func NewClassifier(clock clockwork.Clock, loc *time.Location) *Classifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{
		clock:    clock,
		slots:    DefaultTimeSlots,
		recency:  DefaultRecencyWindow,
		location: loc,
	}
}

// IncidentSeverity - тяжесть одного инцидента: riskLevel*2 в пределах [0,10]
func IncidentSeverity(riskLevel int) float64 {
	return clampSeverity(float64(riskLevel) * 2)
}

// LevelFromSeverity - ступенчатая классификация непрерывной тяжести
func LevelFromSeverity(severity float64) models.Level {
	switch {
	case severity <= 2:
		return models.LevelSafe
	case severity <= 4:
		return models.LevelNeutral
	case severity <= 7:
		return models.LevelCaution
	default:
		return models.LevelDanger
	}
}

// Evaluate оценивает зону на текущий момент. incidents - полный набор инцидентов,
// к зоне относятся попадающие в её радиус и не старше окна свежести.
func (c *Classifier) Evaluate(zone *models.DangerZone, incidents []models.Incident) Assessment {
	now := c.clock.Now()
	timeSlot := c.timeSlotSeverity(zone.TimeBasedRisk, now)
	recent := c.recentSeverity(zone, incidents, now)

	severity := clampSeverity(timeSlot*timeSlotWeight + recent*incidentWeight + recent*frequencyWeight)
	return Assessment{Severity: severity, Level: LevelFromSeverity(severity)}
}

// Apply пересчитывает зону и сообщает, изменился ли её уровень
func (c *Classifier) Apply(zone *models.DangerZone, incidents []models.Incident) bool {
	a := c.Evaluate(zone, incidents)
	changed := a.Level != zone.Level
	zone.CurrentSeverity = a.Severity
	zone.Level = a.Level
	zone.EvaluatedAt = c.clock.Now()
	return changed
}

func (c *Classifier) timeSlotSeverity(risk models.TimeBasedRisk, now time.Time) float64 {
	local := now.In(c.location)
	hour := local.Hour()

	var value float64
	for _, slot := range c.slots {
		if !slot.Contains(hour) {
			continue
		}
		switch slot.Name {
		case SlotMorning:
			value = risk.Morning
		case SlotAfternoon:
			value = risk.Afternoon
		case SlotEvening:
			value = risk.Evening
		case SlotNight:
			value = risk.Night
		}
		break
	}

	multiplier := risk.Weekday
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		multiplier = risk.Weekend
	}
	if multiplier == 0 {
		multiplier = 1
	}
	return clampSeverity(value * multiplier)
}

func (c *Classifier) recentSeverity(zone *models.DangerZone, incidents []models.Incident, now time.Time) float64 {
	var sum float64
	var count int
	for _, incident := range incidents {
		if incident.CreatedAt.IsZero() || now.Sub(incident.CreatedAt) > c.recency {
			continue
		}
		loc, ok := incident.Location()
		if !ok || !loc.Valid() {
			continue
		}
		if incident.ID != zone.ID && geo.Distance(zone.Center, loc) > zone.RadiusMeters {
			continue
		}
		sum += IncidentSeverity(NormalizeRiskLevel(incident))
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

package engine

import (
	"fmt"

	"github.com/shenikar/danger_zone_alerts/internal/models"
)

// alertMessage формирует текст оповещения
func alertMessage(kind models.AlertKind, z *models.DangerZone) string {
	switch kind {
	case models.AlertEntry:
		return fmt.Sprintf("You have entered a danger zone: %s (risk level %d)", z.Name, z.RiskLevel)
	case models.AlertExit:
		return fmt.Sprintf("You have left the danger zone: %s", z.Name)
	case models.AlertLevelChange:
		return fmt.Sprintf("Danger level of %s is now %s", z.Name, z.Level)
	case models.AlertNearby:
		return fmt.Sprintf("Danger zone nearby: %s (risk level %d)", z.Name, z.RiskLevel)
	default:
		return z.Name
	}
}

// recommendations возвращает советы по безопасности для события
func recommendations(kind models.AlertKind, z *models.DangerZone) []string {
	switch kind {
	case models.AlertExit:
		return []string{
			"Continue to stay aware of your surroundings",
		}
	case models.AlertNearby:
		return []string{
			"Consider an alternative route",
			"Avoid entering the area if possible",
		}
	}

	var recs []string
	if kind == models.AlertLevelChange {
		recs = append(recs, "Conditions in this area have changed")
	}
	switch {
	case z.RiskLevel >= 4:
		recs = append(recs,
			"Leave the area as quickly as possible",
			"Stay in well-lit, crowded places",
			"Share your location with a trusted contact",
			"Call emergency services if you feel threatened",
		)
	case z.RiskLevel == 3:
		recs = append(recs,
			"Stay alert",
			"Avoid isolated streets",
			"Keep your phone within reach",
		)
	default:
		recs = append(recs,
			"Be mindful of your surroundings",
			"Keep valuables out of sight",
		)
	}
	return recs
}

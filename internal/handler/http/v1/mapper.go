package v1

import "github.com/shenikar/danger_zone_alerts/internal/models"

// ModelToZoneResponse преобразует зону в DTO для ответа
func ModelToZoneResponse(z models.DangerZone) ZoneResponse {
	polygon := make([]LocationDTO, len(z.Polygon))
	for i, p := range z.Polygon {
		polygon[i] = LocationDTO(p)
	}
	pattern := make([]int64, len(z.AlertSettings.VibrationPattern))
	for i, d := range z.AlertSettings.VibrationPattern {
		pattern[i] = d.Milliseconds()
	}
	return ZoneResponse{
		ID:               z.ID,
		Name:             z.Name,
		Type:             z.Type,
		Latitude:         z.Center.Latitude,
		Longitude:        z.Center.Longitude,
		Polygon:          polygon,
		RadiusMeters:     z.RadiusMeters,
		RiskLevel:        z.RiskLevel,
		Level:            z.Level,
		CurrentSeverity:  z.CurrentSeverity,
		SoundEnabled:     z.AlertSettings.SoundEnabled,
		VibrationEnabled: z.AlertSettings.VibrationEnabled,
		PushEnabled:      z.AlertSettings.PushEnabled,
		VibrationMs:      pattern,
		TimeBasedRisk:    z.TimeBasedRisk,
		CreatedAt:        z.CreatedAt,
		EvaluatedAt:      z.EvaluatedAt,
	}
}

// ModelsToZoneResponses преобразует слайс зон в слайс DTO
func ModelsToZoneResponses(zones []models.DangerZone) []ZoneResponse {
	responses := make([]ZoneResponse, len(zones))
	for i, z := range zones {
		responses[i] = ModelToZoneResponse(z)
	}
	return responses
}

// ModelToAlertResponse преобразует оповещение в DTO для ответа
func ModelToAlertResponse(e models.AlertEvent) AlertResponse {
	resp := AlertResponse{
		ID:              e.ID,
		Kind:            e.Kind,
		ZoneID:          e.ZoneID,
		ZoneName:        e.ZoneName,
		RiskLevel:       e.RiskLevel,
		Level:           e.Level,
		Message:         e.Message,
		Recommendations: e.Recommendations,
		Timestamp:       e.Timestamp,
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []string{}
	}
	if e.Location != nil {
		loc := LocationDTO(*e.Location)
		resp.Location = &loc
	}
	return resp
}

// ModelsToAlertResponses преобразует слайс оповещений в слайс DTO
func ModelsToAlertResponses(events []models.AlertEvent) []AlertResponse {
	responses := make([]AlertResponse, len(events))
	for i, e := range events {
		responses[i] = ModelToAlertResponse(e)
	}
	return responses
}

// ModelToOccupancyResponse преобразует состояние нахождения в DTO
func ModelToOccupancyResponse(s models.ZoneOccupancyState) OccupancyResponse {
	resp := OccupancyResponse{
		Phase:          s.Phase(),
		CurrentZoneID:  s.CurrentZoneID,
		PreviousZoneID: s.PreviousZoneID,
		Acknowledged:   s.Acknowledged,
		AlarmActive:    s.AlarmActive,
	}
	if !s.EnteredAt.IsZero() {
		entered := s.EnteredAt
		resp.EnteredAt = &entered
	}
	return resp
}

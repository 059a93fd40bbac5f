package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/service"
)

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) service.AlertRepository {
	return &AlertRepository{db: db}
}

// SaveAlertEvent сохраняет событие оповещения в журнал
func (r *AlertRepository) SaveAlertEvent(ctx context.Context, event *models.AlertEvent) error {
	recommendations, err := json.Marshal(event.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	var lat, lon *float64
	if event.Location != nil {
		lat, lon = &event.Location.Latitude, &event.Location.Longitude
	}

	query := `
		INSERT INTO alert_events (id, kind, zone_id, zone_name, risk_level, level, message, recommendations, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			CASE WHEN $9::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($9, $10), 4326) END,
			$11)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err = r.db.Exec(ctx, query,
		event.ID,
		event.Kind,
		event.ZoneID,
		event.ZoneName,
		event.RiskLevel,
		event.Level,
		event.Message,
		recommendations,
		lon,
		lat,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save alert event: %w", err)
	}
	return nil
}

// ListRecent возвращает последние события журнала, новые первыми
func (r *AlertRepository) ListRecent(ctx context.Context, limit int) ([]models.AlertEvent, error) {
	query := `
		SELECT
			id,
			kind,
			zone_id,
			zone_name,
			risk_level,
			level,
			message,
			recommendations,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			created_at
		FROM alert_events
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert events: %w", err)
	}
	defer rows.Close()

	events := make([]models.AlertEvent, 0)
	for rows.Next() {
		var (
			event           models.AlertEvent
			recommendations []byte
			lat, lon        *float64
		)
		err := rows.Scan(
			&event.ID,
			&event.Kind,
			&event.ZoneID,
			&event.ZoneName,
			&event.RiskLevel,
			&event.Level,
			&event.Message,
			&recommendations,
			&lat,
			&lon,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert event row: %w", err)
		}
		if len(recommendations) > 0 {
			if err := json.Unmarshal(recommendations, &event.Recommendations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
			}
		}
		if lat != nil && lon != nil {
			event.Location = &models.Location{Latitude: *lat, Longitude: *lon}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return events, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/danger_zone_alerts/internal/models"
	"github.com/shenikar/danger_zone_alerts/internal/service"
)

const incidentColumns = `
	id,
	name,
	type,
	location_label,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	risk_level,
	level,
	validated,
	created_at,
	updated_at`

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

// ListValidated возвращает все подтверждённые инциденты в порядке поступления
func (r *IncidentRepository) ListValidated(ctx context.Context) ([]models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE validated = TRUE
		ORDER BY created_at ASC, id ASC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list validated incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return &incident, nil
}

func scanIncident(row pgx.Row) (models.Incident, error) {
	var incident models.Incident
	var name, incidentType, label *string
	err := row.Scan(
		&incident.ID,
		&name,
		&incidentType,
		&label,
		&incident.Latitude,
		&incident.Longitude,
		&incident.RiskLevel,
		&incident.Level,
		&incident.Validated,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return models.Incident{}, err
	}
	incident.Name = deref(name)
	incident.Type = deref(incidentType)
	incident.LocationLabel = deref(label)
	return incident, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

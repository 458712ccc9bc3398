package metric

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists health metrics in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed metric store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const metricCols = `id, patient_id, type, value, unit, measured_at, notes,
	source, context, status, category, subcategory, created_at`

func scanMetric(row pgx.Row) (*HealthMetric, error) {
	var m HealthMetric
	err := row.Scan(&m.ID, &m.PatientID, &m.Type, &m.Value, &m.Unit, &m.MeasuredAt,
		&m.Notes, &m.Source, &m.Context, &m.Status, &m.Category, &m.Subcategory, &m.CreatedAt)
	return &m, err
}

// Create inserts one health metric record.
func (s *PGStore) Create(ctx context.Context, d Draft) (*HealthMetric, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metric draft: %w", err)
	}

	m := &HealthMetric{
		ID:          uuid.New(),
		PatientID:   d.PatientID,
		Type:        d.Type,
		Value:       d.Value,
		Unit:        d.Unit,
		MeasuredAt:  d.MeasuredAt,
		Notes:       d.Notes,
		Source:      d.Source,
		Context:     d.Context,
		Status:      d.Status,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO health_metric (id, patient_id, type, value, unit, measured_at, notes,
			source, context, status, category, subcategory, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		m.ID, m.PatientID, m.Type, m.Value, m.Unit, m.MeasuredAt, m.Notes,
		m.Source, m.Context, m.Status, m.Category, m.Subcategory, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert health metric: %w", err)
	}
	return m, nil
}

// ListByPatient returns the most recent metrics for a patient.
func (s *PGStore) ListByPatient(ctx context.Context, patientID int64, limit int) ([]*HealthMetric, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+metricCols+`
		FROM health_metric
		WHERE patient_id = $1
		ORDER BY measured_at DESC
		LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list health metrics: %w", err)
	}
	defer rows.Close()

	var out []*HealthMetric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

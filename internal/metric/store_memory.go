package metric

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by the CLI when no database is
// configured, and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	metrics []*HealthMetric
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create appends one health metric record.
func (s *MemoryStore) Create(_ context.Context, d Draft) (*HealthMetric, error) {
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

	s.mu.Lock()
	s.metrics = append(s.metrics, m)
	s.mu.Unlock()
	return m, nil
}

// ListByPatient returns the most recent metrics for a patient.
func (s *MemoryStore) ListByPatient(_ context.Context, patientID int64, limit int) ([]*HealthMetric, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*HealthMetric
	for _, m := range s.metrics {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MeasuredAt.After(out[j].MeasuredAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Package metric defines persisted health metric records and their
// storage interface.
package metric

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Source tags where a metric came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceReport Source = "report"
	SourceDevice Source = "device"
)

// Status is the computed flag for a metric value relative to its
// reference range. It is set once at creation and not recomputed if
// reference ranges change later.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusBorderline Status = "borderline"
	StatusHigh       Status = "high"
)

// HealthMetric is one persisted health observation. Records are created
// once at extraction time and only mutated by explicit correction flows.
type HealthMetric struct {
	ID          uuid.UUID `json:"id"`
	PatientID   int64     `json:"patient_id"`
	Type        string    `json:"type"`
	Value       string    `json:"value"` // string to support composite values like "120/80"
	Unit        string    `json:"unit"`
	MeasuredAt  time.Time `json:"measured_at"`
	Notes       string    `json:"notes,omitempty"`
	Source      Source    `json:"source"`
	Context     string    `json:"context,omitempty"`
	Status      Status    `json:"status"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Draft is the set of fields the extraction core constructs; the store
// assigns identity and creation time.
type Draft struct {
	PatientID   int64     `validate:"required"`
	Type        string    `validate:"required"`
	Value       string    `validate:"required"`
	Unit        string    `validate:"required"`
	MeasuredAt  time.Time `validate:"required"`
	Notes       string
	Source      Source `validate:"required,oneof=manual report device"`
	Context     string
	Status      Status `validate:"required,oneof=normal borderline high"`
	Category    string `validate:"required"`
	Subcategory string
}

var draftValidator = validator.New()

// Validate checks structural integrity of a draft before persistence.
func (d Draft) Validate() error {
	return draftValidator.Struct(d)
}

// Store persists health metrics. Implementations must treat each Create
// as an independent insert; concurrent calls for distinct reports never
// conflict.
type Store interface {
	Create(ctx context.Context, d Draft) (*HealthMetric, error)
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]*HealthMetric, error)
}

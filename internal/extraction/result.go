package extraction

import (
	"time"

	"github.com/labwise/labwise/internal/metric"
)

// FailureReason names why an extraction call produced no metrics.
type FailureReason string

const (
	// ReasonAllProvidersFailed means every available provider was tried
	// (or fallback was disabled) and none returned usable data.
	ReasonAllProvidersFailed FailureReason = "all_providers_failed"
	// ReasonNoProvidersAvailable means the ordered provider list was
	// empty before any attempt was made.
	ReasonNoProvidersAvailable FailureReason = "no_providers_available"
)

// Attempt is the outcome of trying one provider within a call.
type Attempt struct {
	Provider  string        `json:"provider"`
	Success   bool          `json:"success"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Retryable bool          `json:"retryable,omitempty"`
}

// QualityReport aggregates the validation outcome of one provider's
// findings, for monitoring output quality per extraction.
type QualityReport struct {
	AverageQuality float64        `json:"average_quality"`
	ErrorCounts    map[string]int `json:"error_counts,omitempty"`
	WarningCounts  map[string]int `json:"warning_counts,omitempty"`
}

// Result is the envelope returned for one extraction call. It is never
// persisted; callers inspect Success and either consume Metrics or
// proceed without AI-derived findings.
type Result struct {
	Success       bool                   `json:"success"`
	Provider      string                 `json:"provider,omitempty"`
	Model         string                 `json:"model,omitempty"`
	Metrics       []*metric.HealthMetric `json:"metrics"`
	Categories    []string               `json:"categories"`
	Duration      time.Duration          `json:"duration"`
	AttemptsMade  int                    `json:"attempts_made"`
	FailureReason FailureReason          `json:"failure_reason,omitempty"`
	Attempts      []Attempt              `json:"attempts"`
	Quality       *QualityReport         `json:"quality,omitempty"`
}

// Package provider implements AI extraction backends for medical report text.
//
// Each backend formats a medical-extraction prompt, calls its API with
// retry and backoff, parses the JSON response and normalizes it into a
// canonical shape. Backends differ only in the wire call; everything else
// is shared template behavior.
package provider

import (
	"context"
	"time"
)

// ReportContext carries immutable per-call context about the report being
// processed. It is passed to every extraction call and never mutated.
type ReportContext struct {
	ReportID   int64
	PatientID  int64
	ReportType string
	ReportDate time.Time
	HasOCRData bool
}

// RawFinding is one clinical observation as emitted by a provider.
// It is transient and never persisted as-is.
type RawFinding struct {
	Name           string
	Value          string
	Unit           string
	ReferenceRange string
	Status         string
	Description    string
}

// PatientDetails holds demographics reported by the backend.
type PatientDetails struct {
	Name   string
	Age    string
	Gender string
}

// NormalizedResponse is the canonical shape all backends produce.
type NormalizedResponse struct {
	Patient         PatientDetails
	Diagnosis       string
	Findings        []RawFinding
	Recommendations string
	Confidence      string // "0%".."100%"
	Model           string
}

// Provider is the core abstraction over AI extraction backends.
type Provider interface {
	// ExtractMetrics extracts structured findings from raw medical text.
	ExtractMetrics(ctx context.Context, rawText string, rc ReportContext) (NormalizedResponse, error)

	// Name returns the provider identifier.
	Name() string

	// Model returns the configured model identifier.
	Model() string

	// Available reports whether the provider is enabled and fully configured.
	Available() bool
}

// Config holds common configuration for providers.
type Config struct {
	Enabled    bool
	APIKey     string
	BaseURL    string // For OpenAI-compatible gateways or custom endpoints
	Model      string
	MaxRetries int
	Timeout    time.Duration
	Priority   int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

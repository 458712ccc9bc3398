// Package validate performs range-sanity validation of mapped health
// metrics. Validation is advisory: it scores quality and flags issues
// for monitoring. Only structural errors (missing fields, malformed
// values) mark a draft unusable; range and unit findings are recorded
// but never block ingestion.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/labwise/labwise/internal/mapping"
)

// Severity grades an issue.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Issue is one validation error or warning.
type Issue struct {
	Code     string
	Field    string
	Message  string
	Severity Severity
}

// Result is the outcome of validating one metric draft. Valid is true
// iff there are zero errors; warnings never invalidate.
type Result struct {
	Valid        bool
	Errors       []Issue
	Warnings     []Issue
	QualityScore float64
}

// Input is the subset of a metric draft the validator inspects.
type Input struct {
	Type  string
	Value string
	Unit  string
}

// structuralCodes are error codes that mean no coherent metric record
// can be built from the draft. Everything else is advisory.
var structuralCodes = map[string]bool{
	"missing_type":  true,
	"missing_value": true,
	"missing_unit":  true,
	"bad_shape":     true,
}

// Usable reports whether the validated draft is structurally sound
// enough to persist. Range and unit issues never affect it.
func (r Result) Usable() bool {
	for _, e := range r.Errors {
		if structuralCodes[e.Code] {
			return false
		}
	}
	return true
}

// Validator checks metric drafts against shape, unit and bounds tables.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

var (
	numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	bpPattern      = regexp.MustCompile(`^\d+\s*/\s*\d+$`)
	rangePattern   = regexp.MustCompile(`^\d+(\.\d+)?\s*-\s*\d+(\.\d+)?$`)
)

// Validate checks a single metric draft and computes its quality score.
func (v *Validator) Validate(in Input) Result {
	var errs, warns []Issue

	if strings.TrimSpace(in.Type) == "" {
		errs = append(errs, Issue{Code: "missing_type", Field: "type", Message: "metric type is required", Severity: SeverityHigh})
	}
	if strings.TrimSpace(in.Value) == "" {
		errs = append(errs, Issue{Code: "missing_value", Field: "value", Message: "metric value is required", Severity: SeverityHigh})
	}
	if strings.TrimSpace(in.Unit) == "" {
		errs = append(errs, Issue{Code: "missing_unit", Field: "unit", Message: "metric unit is required", Severity: SeverityHigh})
	}

	sm, known := mapping.Lookup(in.Type)
	if known && strings.TrimSpace(in.Value) != "" {
		errs, warns = v.checkShape(in, sm, errs, warns)
		warns = v.checkUnit(in, warns)
		errs, warns = v.checkBounds(in, sm, errs, warns)
	}

	return Result{
		Valid:        len(errs) == 0,
		Errors:       errs,
		Warnings:     warns,
		QualityScore: qualityScore(errs, warns),
	}
}

func (v *Validator) checkShape(in Input, sm mapping.StandardMapping, errs, warns []Issue) ([]Issue, []Issue) {
	value := strings.TrimSpace(in.Value)
	switch sm.Shape {
	case mapping.ShapeNumeric:
		if !numericPattern.MatchString(value) {
			errs = append(errs, Issue{
				Code: "bad_shape", Field: "value", Severity: SeverityHigh,
				Message: fmt.Sprintf("value %q is not numeric", value),
			})
		}
	case mapping.ShapeBloodPressure:
		if !bpPattern.MatchString(value) {
			errs = append(errs, Issue{
				Code: "bad_shape", Field: "value", Severity: SeverityHigh,
				Message: fmt.Sprintf("value %q does not match systolic/diastolic form", value),
			})
		}
	case mapping.ShapeRange:
		if !rangePattern.MatchString(value) {
			warns = append(warns, Issue{
				Code: "bad_shape", Field: "value", Severity: SeverityLow,
				Message: fmt.Sprintf("value %q does not look like a range", value),
			})
		}
	}
	return errs, warns
}

func (v *Validator) checkUnit(in Input, warns []Issue) []Issue {
	units, ok := validUnits[in.Type]
	if !ok || strings.TrimSpace(in.Unit) == "" {
		return warns
	}
	for _, u := range units {
		if strings.EqualFold(u, strings.TrimSpace(in.Unit)) {
			return warns
		}
	}
	return append(warns, Issue{
		Code: "unknown_unit", Field: "unit", Severity: SeverityMedium,
		Message: fmt.Sprintf("unit %q is not a known unit for %s", in.Unit, in.Type),
	})
}

func (v *Validator) checkBounds(in Input, sm mapping.StandardMapping, errs, warns []Issue) ([]Issue, []Issue) {
	if sm.Shape != mapping.ShapeNumeric {
		return errs, warns
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(in.Value), 64)
	if err != nil {
		return errs, warns
	}

	if b, ok := criticalBounds[in.Type]; ok && (value < b.Min || value > b.Max) {
		errs = append(errs, Issue{
			Code: "critical_bound", Field: "value", Severity: SeverityHigh,
			Message: fmt.Sprintf("value %v is outside critical bounds [%v, %v]", value, b.Min, b.Max),
		})
	}
	if b, ok := plausibleBounds[in.Type]; ok && (value < b.Min || value > b.Max) {
		warns = append(warns, Issue{
			Code: "implausible_value", Field: "value", Severity: SeverityHigh,
			Message: fmt.Sprintf("value %v is outside plausible bounds [%v, %v]", value, b.Min, b.Max),
		})
	}
	if b, ok := unusualBounds[in.Type]; ok && (value < b.Min || value > b.Max) {
		warns = append(warns, Issue{
			Code: "unusual_value", Field: "value", Severity: SeverityMedium,
			Message: fmt.Sprintf("value %v is outside usual bounds [%v, %v]", value, b.Min, b.Max),
		})
	}
	return errs, warns
}

// qualityScore starts at 1.0 and deducts per issue by severity,
// floored at 0.
func qualityScore(errs, warns []Issue) float64 {
	score := 1.0
	for _, e := range errs {
		switch e.Severity {
		case SeverityHigh:
			score -= 0.3
		case SeverityMedium:
			score -= 0.2
		case SeverityLow:
			score -= 0.1
		}
	}
	for _, w := range warns {
		switch w.Severity {
		case SeverityHigh:
			score -= 0.15
		case SeverityMedium:
			score -= 0.1
		case SeverityLow:
			score -= 0.05
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// BatchResult aggregates per-item results plus issue frequency counts,
// used for monitoring provider quality over time.
type BatchResult struct {
	Results        []Result
	ErrorCounts    map[string]int
	WarningCounts  map[string]int
	AverageQuality float64
}

// ValidateBatch validates each input independently and aggregates issue
// frequencies across the batch.
func (v *Validator) ValidateBatch(inputs []Input) BatchResult {
	br := BatchResult{
		Results:       make([]Result, 0, len(inputs)),
		ErrorCounts:   make(map[string]int),
		WarningCounts: make(map[string]int),
	}

	var total float64
	for _, in := range inputs {
		r := v.Validate(in)
		br.Results = append(br.Results, r)
		for _, e := range r.Errors {
			br.ErrorCounts[e.Code]++
		}
		for _, w := range r.Warnings {
			br.WarningCounts[w.Code]++
		}
		total += r.QualityScore
	}
	if len(inputs) > 0 {
		br.AverageQuality = total / float64(len(inputs))
	}
	return br
}

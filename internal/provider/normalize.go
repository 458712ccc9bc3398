package provider

import (
	"fmt"
	"strconv"
	"strings"
)

const missing = "N/A"

// normalize fills missing top-level fields with safe defaults, drops
// placeholder findings and coerces the confidence score into a 0-100
// percent string.
func normalize(wire wireResponse) NormalizedResponse {
	resp := NormalizedResponse{
		Patient: PatientDetails{
			Name:   orMissing(wire.PatientDetails.Name),
			Age:    orMissing(wire.PatientDetails.Age),
			Gender: orMissing(wire.PatientDetails.Gender),
		},
		Diagnosis:       orMissing(wire.Diagnosis),
		Recommendations: orMissing(wire.Recommendations),
		Confidence:      coerceConfidence(wire.Confidence),
		Findings:        make([]RawFinding, 0, len(wire.Findings)),
	}

	for _, wf := range wire.Findings {
		f := wf.RawFinding
		if isPlaceholder(f.Name) || isPlaceholder(f.Value) {
			continue
		}
		f.Name = strings.TrimSpace(f.Name)
		f.Value = strings.TrimSpace(f.Value)
		f.Unit = strings.TrimSpace(f.Unit)
		resp.Findings = append(resp.Findings, f)
	}

	return resp
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return strings.TrimSpace(s)
}

func isPlaceholder(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, missing) || strings.EqualFold(t, "na") || strings.EqualFold(t, "none")
}

// coerceConfidence accepts a number or string confidence in either 0-1
// or 0-100 form and renders it as an integer percent string. Values at
// or below 1 are treated as fractions and scaled.
func coerceConfidence(v any) string {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(t), "%")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "0%"
		}
		f = parsed
	default:
		return "0%"
	}

	if f <= 1 && f >= 0 {
		f *= 100
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return fmt.Sprintf("%d%%", int(f+0.5))
}

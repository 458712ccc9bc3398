package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/labwise/labwise/internal/metric"
)

// ReferenceRange bounds a metric type's value. Min/Max delimit the
// normal band; WarningHigh and CriticalHigh split the above-normal band
// into borderline and high.
type ReferenceRange struct {
	Min          float64
	Max          float64
	WarningHigh  float64
	CriticalHigh float64
}

// defaultRanges carries the built-in reference ranges per standardized
// type. Built once at process start; read-only thereafter.
var defaultRanges = map[string]ReferenceRange{
	"total_cholesterol": {Min: 125, Max: 200, WarningHigh: 240, CriticalHigh: 300},
	"ldl":               {Min: 0, Max: 100, WarningHigh: 160, CriticalHigh: 190},
	"hdl":               {Min: 40, Max: 100, WarningHigh: 120, CriticalHigh: 150},
	"triglycerides":     {Min: 0, Max: 150, WarningHigh: 200, CriticalHigh: 500},
	"fasting_glucose":   {Min: 70, Max: 100, WarningHigh: 126, CriticalHigh: 200},
	"random_glucose":    {Min: 70, Max: 140, WarningHigh: 200, CriticalHigh: 300},
	"hba1c":             {Min: 4, Max: 5.7, WarningHigh: 6.5, CriticalHigh: 10},
	"hemoglobin":        {Min: 12, Max: 17.5, WarningHigh: 19, CriticalHigh: 22},
	"wbc_count":         {Min: 4, Max: 11, WarningHigh: 15, CriticalHigh: 30},
	"platelet_count":    {Min: 150, Max: 450, WarningHigh: 600, CriticalHigh: 1000},
	"tsh":               {Min: 0.4, Max: 4.0, WarningHigh: 6, CriticalHigh: 10},
	"creatinine":        {Min: 0.6, Max: 1.3, WarningHigh: 2, CriticalHigh: 4},
	"alt":               {Min: 7, Max: 56, WarningHigh: 120, CriticalHigh: 300},
	"ast":               {Min: 8, Max: 48, WarningHigh: 120, CriticalHigh: 300},
	"vitamin_d":         {Min: 30, Max: 100, WarningHigh: 125, CriticalHigh: 150},
	"vitamin_b12":       {Min: 200, Max: 900, WarningHigh: 1200, CriticalHigh: 2000},
	"uric_acid":         {Min: 2.5, Max: 7, WarningHigh: 9, CriticalHigh: 12},
	"heart_rate":        {Min: 60, Max: 100, WarningHigh: 120, CriticalHigh: 160},
}

var bpSystolic = ReferenceRange{Min: 90, Max: 120, WarningHigh: 140, CriticalHigh: 180}
var bpDiastolic = ReferenceRange{Min: 60, Max: 80, WarningHigh: 90, CriticalHigh: 120}

var bpPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)\s*$`)

// numericPrefix pulls the leading number out of values like "220 mg/dL"
// or "5.4%".
var numericPrefix = regexp.MustCompile(`^\s*([<>]?\s*\d+(?:[.,]\d+)?)`)

func parseValue(raw string) (float64, bool) {
	m := numericPrefix.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	s := strings.TrimSpace(strings.TrimLeft(m[1], "<> "))
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// statusFor places a single numeric value against a range. Values below
// Min read as borderline rather than high: the three-state flag has no
// dedicated "low", and a below-range result still warrants attention.
func statusFor(v float64, r ReferenceRange) metric.Status {
	switch {
	case v > r.WarningHigh:
		return metric.StatusHigh
	case v > r.Max:
		return metric.StatusBorderline
	case v < r.Min:
		return metric.StatusBorderline
	default:
		return metric.StatusNormal
	}
}

// worse returns the more severe of two statuses.
func worse(a, b metric.Status) metric.Status {
	rank := map[metric.Status]int{
		metric.StatusNormal:     0,
		metric.StatusBorderline: 1,
		metric.StatusHigh:       2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// CalculateStatus computes a metric's status flag from its value and the
// built-in reference range for its type. Blood pressure takes the worse
// of the systolic and diastolic readings. Types without a known range,
// and values that do not parse, default to normal — an unknown range is
// not evidence of abnormality.
func CalculateStatus(typeKey, rawValue string) metric.Status {
	if typeKey == "blood_pressure" {
		m := bpPattern.FindStringSubmatch(rawValue)
		if m == nil {
			return metric.StatusNormal
		}
		sys, err1 := strconv.ParseFloat(m[1], 64)
		dia, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return metric.StatusNormal
		}
		return worse(statusFor(sys, bpSystolic), statusFor(dia, bpDiastolic))
	}

	r, ok := defaultRanges[typeKey]
	if !ok {
		return metric.StatusNormal
	}
	v, ok := parseValue(rawValue)
	if !ok {
		return metric.StatusNormal
	}
	return statusFor(v, r)
}

// RangeFor exposes the built-in reference range for a type, if any.
func RangeFor(typeKey string) (ReferenceRange, bool) {
	r, ok := defaultRanges[typeKey]
	return r, ok
}

package mapping

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/labwise/labwise/internal/logger"
)

// Context carries the hints available alongside a raw parameter name.
type Context struct {
	Value  string
	Unit   string
	Status string
}

// Method identifies which cascade stage produced a match.
type Method string

const (
	MethodExact      Method = "exact"
	MethodAlias      Method = "alias"
	MethodFuzzy      Method = "fuzzy"
	MethodContextual Method = "contextual"
)

// Match is a successful raw-name to standard-type mapping.
type Match struct {
	Mapping      StandardMapping
	Confidence   float64
	DetectedUnit string
	Method       Method
	Hints        []string
}

// Mapper resolves free-text clinical parameter names against the
// standard taxonomy. It is immutable after construction and safe for
// concurrent use.
type Mapper struct {
	exact    map[string]StandardMapping // normalized name, qualifiers kept
	stripped map[string]StandardMapping // normalized name, qualifiers stripped
}

// NewMapper builds the lookup indexes from the standard taxonomy.
func NewMapper() *Mapper {
	m := &Mapper{
		exact:    make(map[string]StandardMapping),
		stripped: make(map[string]StandardMapping),
	}

	// Deterministic build order so priority ties resolve stably.
	keys := make([]string, 0, len(standardsByType))
	for k := range standardsByType {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sm := standardsByType[k]
		m.index(normalizeName(sm.Type), sm)
		m.index(normalizeName(sm.DisplayName), sm)
	}
	return m
}

func (m *Mapper) index(name string, sm StandardMapping) {
	if prev, ok := m.exact[name]; !ok || sm.Priority < prev.Priority {
		m.exact[name] = sm
	}
	s := stripQualifiers(name)
	if prev, ok := m.stripped[s]; !ok || sm.Priority < prev.Priority {
		m.stripped[s] = sm
	}
}

// MapToStandardType maps a raw clinical parameter name plus contextual
// hints onto a standard metric type. The cascade is exact, alias, fuzzy,
// then contextual; the first hit wins. A miss returns ok=false — the
// caller is expected to log and skip the finding.
func (m *Mapper) MapToStandardType(rawName string, mc Context) (Match, bool) {
	name := normalizeName(rawName)
	if name == "" {
		return Match{}, false
	}
	strippedName := stripQualifiers(name)

	if sm, ok := m.lookupExact(name, strippedName); ok {
		return m.match(sm, mc, MethodExact), true
	}
	if sm, ok := m.lookupAlias(name, strippedName); ok {
		return m.match(sm, mc, MethodAlias), true
	}
	if sm, ok := m.lookupFuzzy(strippedName); ok {
		return m.match(sm, mc, MethodFuzzy), true
	}
	if sm, ok := m.lookupContextual(strippedName, mc); ok {
		return m.match(sm, mc, MethodContextual), true
	}

	logger.Debug("no standard mapping for parameter", "name", rawName)
	return Match{}, false
}

func (m *Mapper) lookupExact(name, strippedName string) (StandardMapping, bool) {
	if sm, ok := m.exact[name]; ok {
		return sm, true
	}
	if sm, ok := m.stripped[strippedName]; ok {
		return sm, true
	}
	return StandardMapping{}, false
}

func (m *Mapper) lookupAlias(name, strippedName string) (StandardMapping, bool) {
	if key, ok := aliases[name]; ok {
		return standardsByType[key], true
	}
	if key, ok := aliases[strippedName]; ok {
		return standardsByType[key], true
	}
	return StandardMapping{}, false
}

// fuzzyStems is a priority-ordered list of high-frequency stem patterns.
// Ordering matters: specific stems come before their generic fallbacks,
// so "vitamin b12" wins over the bare "vitamin" default. The bare
// "vitamin" entry is an accepted over-match heuristic, not a guarantee.
var fuzzyStems = []struct {
	pattern string
	typeKey string
}{
	{"vitamin b12", "vitamin_b12"},
	{"vitamin b-12", "vitamin_b12"},
	{"vitamin d3", "vitamin_d"},
	{"vitamin d", "vitamin_d"},
	{"triglycer", "triglycerides"},
	{"hdl", "hdl"},
	{"ldl", "ldl"},
	{"cholesterol", "total_cholesterol"},
	{"thyroid", "tsh"},
	{"pressure", "blood_pressure"},
	{"hemoglobin", "hemoglobin"},
	{"glucose", "fasting_glucose"},
	{"sugar", "fasting_glucose"},
	{"platelet", "platelet_count"},
	{"bilirubin", "total_bilirubin"},
	{"creatinine", "creatinine"},
	{"ferritin", "ferritin"},
	{"uric", "uric_acid"},
	{"calcium", "calcium"},
	{"sodium", "sodium"},
	{"potassium", "potassium"},
	{"vitamin", "vitamin_d"},
}

func (m *Mapper) lookupFuzzy(name string) (StandardMapping, bool) {
	for _, s := range fuzzyStems {
		if strings.Contains(name, s.pattern) || strings.Contains(s.pattern, name) {
			return standardsByType[s.typeKey], true
		}
	}
	return StandardMapping{}, false
}

var bpValuePattern = regexp.MustCompile(`^\d+\s*/\s*\d+$`)

// unitHints maps a declared unit to candidate types, each with the name
// stems that confirm it. The first candidate whose stem appears in the
// cleaned name wins.
var unitHints = map[string][]struct {
	typeKey string
	stems   []string
}{
	"miu/l":   {{"tsh", []string{"tsh", "thyroid", "stimulating"}}},
	"µiu/ml":  {{"tsh", []string{"tsh", "thyroid", "stimulating"}}},
	"%":       {{"hba1c", []string{"a1c", "glyc"}}, {"hematocrit", []string{"hematocrit", "hct", "pcv"}}, {"spo2", []string{"spo2", "oxygen", "sat"}}},
	"g/dl":    {{"hemoglobin", []string{"hemoglobin", "hb"}}, {"albumin", []string{"albumin"}}},
	"u/l":     {{"alt", []string{"alt", "sgpt"}}, {"ast", []string{"ast", "sgot"}}, {"alp", []string{"alp", "alkaline"}}},
	"ng/ml":   {{"vitamin_d", []string{"vitamin", "25"}}, {"ferritin", []string{"ferritin"}}},
	"pg/ml":   {{"vitamin_b12", []string{"b12", "cobalamin", "vitamin"}}},
	"mg/dl":   {{"fasting_glucose", []string{"glucose", "sugar"}}, {"creatinine", []string{"creatinine"}}, {"total_cholesterol", []string{"cholesterol"}}},
	"mm/hr":   {{"esr", []string{"esr", "sedimentation"}}},
	"meq/l":   {{"sodium", []string{"sodium", "na"}}, {"potassium", []string{"potassium", "k"}}},
	"mmhg":    {{"blood_pressure", []string{"pressure", "bp"}}},
	"mciu/ml": {{"tsh", []string{"tsh", "thyroid"}}},
}

func (m *Mapper) lookupContextual(name string, mc Context) (StandardMapping, bool) {
	unit := strings.ToLower(strings.TrimSpace(mc.Unit))

	// A systolic/diastolic value with an mmHg unit is blood pressure no
	// matter what the parameter is called.
	if bpValuePattern.MatchString(strings.TrimSpace(mc.Value)) && unit == "mmhg" {
		return standardsByType["blood_pressure"], true
	}

	for _, cand := range unitHints[unit] {
		for _, stem := range cand.stems {
			if strings.Contains(name, stem) {
				return standardsByType[cand.typeKey], true
			}
		}
	}
	return StandardMapping{}, false
}

// match computes the confidence score and validation hints for a hit.
// Confidence starts at 0.8, gains 0.15 for an exact unit match and 0.05
// for a high-priority mapping, capped at 1.0.
func (m *Mapper) match(sm StandardMapping, mc Context, method Method) Match {
	confidence := 0.8
	if mc.Unit != "" && strings.EqualFold(strings.TrimSpace(mc.Unit), sm.DefaultUnit) {
		confidence += 0.15
	}
	if sm.Priority <= 2 {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	detected := strings.TrimSpace(mc.Unit)
	if detected == "" {
		detected = sm.DefaultUnit
	}

	var hints []string
	hints = append(hints, fmt.Sprintf("shape:%s", sm.Shape))
	if mc.Unit != "" && !strings.EqualFold(strings.TrimSpace(mc.Unit), sm.DefaultUnit) {
		hints = append(hints, fmt.Sprintf("unit_differs_from_default:%s", sm.DefaultUnit))
	}

	return Match{
		Mapping:      sm,
		Confidence:   confidence,
		DetectedUnit: detected,
		Method:       method,
		Hints:        hints,
	}
}

var whitespaceRun = regexp.MustCompile(`[\s_]+`)

// normalizeName lowercases, trims, and collapses runs of whitespace or
// underscores to a single space, so "vitamin_b12" and "Vitamin B12"
// normalize identically.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(whitespaceRun.ReplaceAllString(s, " "), " ")
}

var (
	leadingQualifiers  = []string{"serum", "plasma", "blood", "total", "free"}
	trailingQualifiers = []string{"level", "levels", "concentration", "count"}
)

// stripQualifiers removes leading anatomical/fluid qualifiers and
// trailing measurement qualifiers from an already-normalized name.
func stripQualifiers(s string) string {
	changed := true
	for changed {
		changed = false
		for _, q := range leadingQualifiers {
			if rest, ok := strings.CutPrefix(s, q+" "); ok {
				s = rest
				changed = true
			}
		}
		for _, q := range trailingQualifiers {
			if rest, ok := strings.CutSuffix(s, " "+q); ok {
				s = rest
				changed = true
			}
		}
	}
	return s
}

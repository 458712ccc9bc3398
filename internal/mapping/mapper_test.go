package mapping

import (
	"strings"
	"testing"
)

func TestExactMatchReflexive(t *testing.T) {
	m := NewMapper()
	for _, sm := range Standards() {
		// The raw type key (underscores and all) must round-trip
		// through the exact index, never fuzzy.
		for _, name := range []string{sm.Type, strings.ReplaceAll(sm.Type, "_", " ")} {
			got, ok := m.MapToStandardType(name, Context{})
			if !ok {
				t.Errorf("MapToStandardType(%q) missed", name)
				continue
			}
			if got.Mapping.Type != sm.Type {
				t.Errorf("MapToStandardType(%q).Type = %q, want %q", name, got.Mapping.Type, sm.Type)
			}
			if got.Method != MethodExact {
				t.Errorf("MapToStandardType(%q).Method = %q, want exact", name, got.Method)
			}
		}
	}
}

func TestDisplayNamesResolve(t *testing.T) {
	m := NewMapper()
	for _, sm := range Standards() {
		got, ok := m.MapToStandardType(sm.DisplayName, Context{})
		if !ok {
			t.Errorf("display name %q missed", sm.DisplayName)
			continue
		}
		if got.Mapping.Type != sm.Type {
			t.Errorf("display name %q mapped to %q, want %q", sm.DisplayName, got.Mapping.Type, sm.Type)
		}
	}
}

func TestAliasesAreEquivalenceClasses(t *testing.T) {
	m := NewMapper()
	for alias, canonical := range Aliases() {
		viaAlias, ok := m.MapToStandardType(alias, Context{})
		if !ok {
			t.Errorf("alias %q missed", alias)
			continue
		}
		viaKey, ok := m.MapToStandardType(strings.ReplaceAll(canonical, "_", " "), Context{})
		if !ok {
			t.Errorf("canonical %q missed", canonical)
			continue
		}
		if viaAlias.Mapping.Type != viaKey.Mapping.Type {
			t.Errorf("alias %q → %q, canonical %q → %q; want equal",
				alias, viaAlias.Mapping.Type, canonical, viaKey.Mapping.Type)
		}
	}
}

func TestQualifierStripping(t *testing.T) {
	m := NewMapper()
	tests := []struct {
		name string
		want string
	}{
		{"Serum Creatinine", "creatinine"},
		{"Blood Glucose Level", "fasting_glucose"},
		{"Plasma Sodium Concentration", "sodium"},
		{"Platelet Count", "platelet_count"},
		{"Total Bilirubin", "total_bilirubin"},
		{"Free T3", "free_t3"},
		{"T3", "t3"},
	}
	for _, tt := range tests {
		got, ok := m.MapToStandardType(tt.name, Context{})
		if !ok {
			t.Errorf("MapToStandardType(%q) missed", tt.name)
			continue
		}
		if got.Mapping.Type != tt.want {
			t.Errorf("MapToStandardType(%q) = %q, want %q", tt.name, got.Mapping.Type, tt.want)
		}
	}
}

func TestFuzzyMatching(t *testing.T) {
	m := NewMapper()
	tests := []struct {
		name string
		want string
	}{
		{"Serum Cholesterol Estimation", "total_cholesterol"},
		{"Vitamin B12 (Cyanocobalamin)", "vitamin_b12"},
		{"25-OH Vitamin D3 Assay", "vitamin_d"},
		{"Random Blood Sugar Test", "fasting_glucose"},
		{"Thyroid Profile", "tsh"},
	}
	for _, tt := range tests {
		got, ok := m.MapToStandardType(tt.name, Context{})
		if !ok {
			t.Errorf("MapToStandardType(%q) missed", tt.name)
			continue
		}
		if got.Mapping.Type != tt.want {
			t.Errorf("MapToStandardType(%q) = %q, want %q", tt.name, got.Mapping.Type, tt.want)
		}
	}
}

func TestContextualBloodPressure(t *testing.T) {
	m := NewMapper()
	// A systolic/diastolic mmHg value maps to blood_pressure regardless
	// of the raw parameter name.
	for _, name := range []string{"Reading", "Arterial Measurement", "Unlabeled Observation"} {
		got, ok := m.MapToStandardType(name, Context{Value: "120/80", Unit: "mmHg"})
		if !ok {
			t.Errorf("MapToStandardType(%q, 120/80 mmHg) missed", name)
			continue
		}
		if got.Mapping.Type != "blood_pressure" {
			t.Errorf("MapToStandardType(%q) = %q, want blood_pressure", name, got.Mapping.Type)
		}
		if got.Method != MethodContextual {
			t.Errorf("method = %q, want contextual", got.Method)
		}
	}
}

func TestContextualUnitHints(t *testing.T) {
	m := NewMapper()
	got, ok := m.MapToStandardType("Thyroid Stimulating Assay Result", Context{Unit: "mIU/L"})
	if !ok {
		t.Fatal("expected contextual hit via unit hint")
	}
	if got.Mapping.Type != "tsh" {
		t.Errorf("type = %q, want tsh", got.Mapping.Type)
	}
}

func TestMappingMiss(t *testing.T) {
	m := NewMapper()
	if _, ok := m.MapToStandardType("Handwriting Legibility Score", Context{}); ok {
		t.Error("expected miss for unknown parameter")
	}
	if _, ok := m.MapToStandardType("", Context{}); ok {
		t.Error("expected miss for empty name")
	}
}

func TestConfidenceMonotonicAndClamped(t *testing.T) {
	m := NewMapper()

	bare, _ := m.MapToStandardType("total cholesterol", Context{})
	withUnit, _ := m.MapToStandardType("total cholesterol", Context{Unit: "mg/dL"})

	if withUnit.Confidence < bare.Confidence {
		t.Errorf("unit match lowered confidence: %v < %v", withUnit.Confidence, bare.Confidence)
	}
	if withUnit.Confidence > 1.0 || bare.Confidence > 1.0 {
		t.Error("confidence exceeds 1.0")
	}
	if bare.Confidence < 0 {
		t.Error("confidence below 0")
	}
}

func TestDetectedUnitFallsBackToDefault(t *testing.T) {
	m := NewMapper()
	got, _ := m.MapToStandardType("hemoglobin", Context{})
	if got.DetectedUnit != "g/dL" {
		t.Errorf("DetectedUnit = %q, want default g/dL", got.DetectedUnit)
	}

	got, _ = m.MapToStandardType("hemoglobin", Context{Unit: "g/L"})
	if got.DetectedUnit != "g/L" {
		t.Errorf("DetectedUnit = %q, want supplied g/L", got.DetectedUnit)
	}
}

func TestUnitMismatchHint(t *testing.T) {
	m := NewMapper()
	got, _ := m.MapToStandardType("hemoglobin", Context{Unit: "g/L"})
	found := false
	for _, h := range got.Hints {
		if strings.HasPrefix(h, "unit_differs_from_default") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unit mismatch hint, got %v", got.Hints)
	}
}

func TestStripQualifiers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"serum creatinine", "creatinine"},
		{"total serum bilirubin level", "bilirubin"},
		{"platelet count", "platelet"},
		{"free t3", "t3"},
		{"hemoglobin", "hemoglobin"},
	}
	for _, tt := range tests {
		if got := stripQualifiers(tt.in); got != tt.want {
			t.Errorf("stripQualifiers(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupByTypeKey(t *testing.T) {
	sm, ok := Lookup("total_cholesterol")
	if !ok {
		t.Fatal("Lookup(total_cholesterol) missed")
	}
	if sm.Category != CategoryHeart || sm.DefaultUnit != "mg/dL" {
		t.Errorf("unexpected mapping %+v", sm)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should miss")
	}
}

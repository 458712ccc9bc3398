package provider

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid report", validReport, false},
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"too short", "Hb 12", true},
		{"oversized", strings.Repeat("x", maxInputLen+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput("test", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindInput {
				t.Errorf("kind = %q, want input", KindOf(err))
			}
		})
	}
}

func TestCleanTextMojibake(t *testing.T) {
	in := "Patientâ€™s hemoglobin â€“ 14.2 g/dL"
	got := CleanText(in)
	want := "Patient's hemoglobin - 14.2 g/dL"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	in := "Hemoglobin     14.2\t\tg/dL\n\n\n\nGlucose   95   mg/dL\n\n"
	got := CleanText(in)
	want := "Hemoglobin 14.2 g/dL\n\nGlucose 95 mg/dL"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextStripsControlChars(t *testing.T) {
	in := "Hemoglobin\x00\x01 14.2\x7f g/dL"
	got := CleanText(in)
	if strings.ContainsAny(got, "\x00\x01") {
		t.Errorf("control characters survived: %q", got)
	}
	if !strings.Contains(got, "14.2") {
		t.Errorf("content lost: %q", got)
	}
}

func TestCondenseClinicalText(t *testing.T) {
	var b strings.Builder
	b.WriteString("Hemoglobin: 14.2 g/dL\n")
	b.WriteString("Glucose elevated at 130 mg/dL\n")
	for i := 0; i < 600; i++ {
		b.WriteString("This administrative line carries no clinical signal whatsoever.\n")
	}
	text := b.String()
	if len(text) <= condenseThreshold {
		t.Fatal("test input must exceed condense threshold")
	}

	got := condenseClinicalText(text)
	if !strings.Contains(got, "Hemoglobin") || !strings.Contains(got, "Glucose") {
		t.Errorf("clinical lines dropped:\n%s", got)
	}
	if strings.Contains(got, "administrative") {
		t.Error("non-clinical lines kept")
	}
}

func TestCondenseFallbackTruncates(t *testing.T) {
	text := strings.Repeat("zzzz qqqq wwww\n", 1500)
	got := condenseClinicalText(text)
	if len(got) != condenseThreshold {
		t.Errorf("fallback length = %d, want %d", len(got), condenseThreshold)
	}
}

func TestCondenseFallbackKeepsRunesIntact(t *testing.T) {
	// A two-byte rune straddling the cutoff must not be split.
	text := strings.Repeat("z", condenseThreshold-1) + strings.Repeat("é", 50)
	got := condenseClinicalText(text)
	if !utf8.ValidString(got) {
		t.Fatalf("fallback produced invalid UTF-8 at the cutoff")
	}
	if len(got) > condenseThreshold {
		t.Errorf("fallback length = %d, want <= %d", len(got), condenseThreshold)
	}
	if len(got) < condenseThreshold-utf8.UTFMax {
		t.Errorf("fallback length = %d, trimmed more than one rune", len(got))
	}
}

func TestCondenseCapsLineCount(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("Hemoglobin: 14.2 g/dL with extra padding text to inflate the size of every line considerably\n")
	}
	got := condenseClinicalText(b.String())
	if n := len(strings.Split(got, "\n")); n > maxClinicalLines {
		t.Errorf("kept %d lines, cap is %d", n, maxClinicalLines)
	}
}

func TestClinicallyRelevant(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Total Cholesterol 220 mg/dL", true},
		{"TSH within normal limits", true},
		{"Result flagged HIGH", true},
		{"Page 3 of 7", false},
		{"Dr. Mehta, MBBS MD Pathology", false},
	}
	for _, tt := range tests {
		if got := clinicallyRelevant(tt.line); got != tt.want {
			t.Errorf("clinicallyRelevant(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

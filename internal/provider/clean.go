package provider

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input bounds. Text under minInputLen carries no clinical signal; text
// over maxInputLen is an oversized payload and is rejected outright.
const (
	minInputLen       = 10
	maxInputLen       = 50000
	condenseThreshold = 10000
	maxClinicalLines  = 100
)

// validateInput rejects text that is empty, too short or oversized.
func validateInput(providerName, raw string) error {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return newError(KindInput, providerName, "empty input text", nil)
	case len(trimmed) < minInputLen:
		return newError(KindInput, providerName, "input text too short to be meaningful", nil)
	case len(trimmed) > maxInputLen:
		return newError(KindInput, providerName, "input text exceeds maximum size", nil)
	}
	return nil
}

// mojibake sequences commonly produced by OCR pipelines that mangle
// UTF-8 as Latin-1.
var mojibakeReplacer = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€", `"`,
	"â€“", "-",
	"â€”", "-",
	"â€¢", "-",
	"â€", `"`,
	"Â°", "°",
	"Â", "",
	"�", "",
)

var spaceRun = regexp.MustCompile(`[ \t]{2,}`)

// CleanText forces valid UTF-8, strips control characters and known
// mojibake sequences, and collapses whitespace within lines. Line breaks
// are preserved so line-oriented condensing can run afterwards.
func CleanText(raw string) string {
	s := strings.ToValidUTF8(raw, "")
	s = mojibakeReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

var unitPattern = regexp.MustCompile(`(?i)\b(mg/dl|g/dl|mmol/l|miu/l|µiu/ml|iu/l|u/l|ng/ml|ng/dl|pg/ml|mcg/dl|µg/dl|mmhg|fl|pg|%|/cumm|/µl|cells|lakhs?|meq/l)\b`)

var labKeywords = []string{
	"hemoglobin", "haemoglobin", "cholesterol", "glucose", "sugar",
	"triglyceride", "tsh", "t3", "t4", "creatinine", "urea", "bilirubin",
	"sgpt", "sgot", "alt", "ast", "platelet", "wbc", "rbc", "hba1c",
	"vitamin", "ferritin", "sodium", "potassium", "calcium", "albumin",
	"protein", "hematocrit", "esr", "lymphocyte", "neutrophil", "uric",
	"thyroid", "insulin", "hdl", "ldl", "vldl", "crp", "folate",
}

var abnormalKeywords = []string{
	"high", "low", "elevated", "decreased", "abnormal", "borderline",
	"critical", "deficien", "positive", "reactive",
}

// condenseClinicalText keeps only lines that look clinically relevant —
// containing a medical unit, a known lab keyword or an abnormality
// keyword — up to maxClinicalLines. If nothing qualifies it falls back
// to a hard truncation.
func condenseClinicalText(text string) string {
	if len(text) <= condenseThreshold {
		return text
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if clinicallyRelevant(line) {
			kept = append(kept, line)
			if len(kept) >= maxClinicalLines {
				break
			}
		}
	}

	if len(kept) == 0 {
		// Truncate on a rune boundary so a multi-byte character is
		// never split.
		cut := condenseThreshold
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		return text[:cut]
	}
	return strings.Join(kept, "\n")
}

func clinicallyRelevant(line string) bool {
	if unitPattern.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range labKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range abnormalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

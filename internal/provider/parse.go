package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// wireResponse mirrors the JSON schema requested by the prompt.
// Confidence arrives as a number or a string depending on the backend.
type wireResponse struct {
	PatientDetails struct {
		Name   string `json:"name"`
		Age    string `json:"age"`
		Gender string `json:"gender"`
	} `json:"patient_details"`
	Diagnosis       string        `json:"diagnosis"`
	Findings        []wireFinding `json:"findings"`
	Recommendations string        `json:"recommendations"`
	Confidence      any           `json:"confidence_score"`
}

// wireFinding resolves the duck-typed finding shape (bare string or
// object) into a single RawFinding at parse time.
type wireFinding struct {
	RawFinding
}

func (f *wireFinding) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.RawFinding = findingFromString(s)
		return nil
	}

	var obj struct {
		Finding        string `json:"finding"`
		Name           string `json:"name"`
		Parameter      string `json:"parameter"`
		TestName       string `json:"test_name"`
		Value          any    `json:"value"`
		Unit           string `json:"unit"`
		ReferenceRange string `json:"reference_range"`
		NormalRange    string `json:"normal_range"`
		Status         string `json:"status"`
		Description    string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	name := firstNonEmpty(obj.Finding, obj.Name, obj.Parameter, obj.TestName)
	f.RawFinding = RawFinding{
		Name:           name,
		Value:          stringify(obj.Value),
		Unit:           obj.Unit,
		ReferenceRange: firstNonEmpty(obj.ReferenceRange, obj.NormalRange),
		Status:         obj.Status,
		Description:    obj.Description,
	}
	return nil
}

var stringFindingPattern = regexp.MustCompile(`^(.*?)[:\-]\s*([\d.,/]+)\s*(.*)$`)

// findingFromString best-effort parses "Hemoglobin: 10.7 g/dL" shapes.
func findingFromString(s string) RawFinding {
	s = strings.TrimSpace(s)
	if m := stringFindingPattern.FindStringSubmatch(s); m != nil {
		return RawFinding{
			Name:  strings.TrimSpace(m[1]),
			Value: strings.TrimSpace(m[2]),
			Unit:  strings.TrimSpace(m[3]),
		}
	}
	return RawFinding{Name: s}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	default:
		return fmt.Sprintf("%v", t)
	}
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSONObject pulls the first balanced {...} span out of a response
// that may be wrapped in a markdown code fence or surrounded by prose.
func extractJSONObject(content string) (string, bool) {
	if m := codeFencePattern.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

var quoteRepairer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"\uFEFF", "",
)

// repairJSON applies a single best-effort repair pass: normalize quote
// characters and strip trailing commas.
func repairJSON(s string) string {
	s = quoteRepairer.Replace(s)
	return trailingComma.ReplaceAllString(s, "$1")
}

// parseResponse turns a raw backend response into a NormalizedResponse.
// One repair pass is attempted before declaring a parse failure.
func parseResponse(providerName, content string) (NormalizedResponse, error) {
	obj, ok := extractJSONObject(content)
	if !ok {
		return NormalizedResponse{}, newError(KindParse, providerName, "no JSON object in response", nil)
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		repaired := repairJSON(obj)
		if err2 := json.Unmarshal([]byte(repaired), &wire); err2 != nil {
			return NormalizedResponse{}, newError(KindParse, providerName, "unparseable JSON response", err)
		}
	}

	return normalize(wire), nil
}

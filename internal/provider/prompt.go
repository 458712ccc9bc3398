package provider

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a medical data extraction assistant. Your task is to extract structured health findings from medical report text.

Rules:
1. Extract every lab parameter, vital sign and clinical finding present in the text
2. Return valid JSON matching the exact schema requested, with no extra text
3. Report values exactly as written, including composite values like "120/80"
4. Never invent findings; never emit placeholder "N/A" findings when real data exists
5. Preserve the units printed in the report
6. Copy reference ranges verbatim when the report states them`

// BuildPrompt creates the extraction prompt for a cleaned report text.
// Every backend sends the same prompt; the response schema below is the
// only wire contract the parser accepts.
func BuildPrompt(text string, rc ReportContext) string {
	var b strings.Builder

	b.WriteString("Extract structured health findings from the following medical report.\n\n")

	if rc.ReportType != "" {
		fmt.Fprintf(&b, "Report type: %s\n", rc.ReportType)
	}
	if !rc.ReportDate.IsZero() {
		fmt.Fprintf(&b, "Report date: %s\n", rc.ReportDate.Format("2006-01-02"))
	}

	b.WriteString(`
Return ONLY a JSON object in this exact structure:

{
  "patient_details": {
    "name": "patient name or N/A",
    "age": "age or N/A",
    "gender": "gender or N/A"
  },
  "diagnosis": "primary diagnosis or impression, or N/A",
  "findings": [
    {
      "finding": "parameter name, e.g. Hemoglobin",
      "value": "measured value, e.g. 10.7 or 120/80",
      "unit": "unit as printed, e.g. g/dL",
      "reference_range": "range as printed, e.g. 13.0-17.0, or N/A",
      "status": "normal, high, low, borderline or N/A",
      "description": "one-line clinical note about this finding, or N/A"
    }
  ],
  "recommendations": "brief follow-up recommendations, or N/A",
  "confidence_score": 85
}

"confidence_score" is an integer from 0 to 100 expressing how confident
you are in the extraction overall. Do not include findings whose name or
value would be "N/A" — omit them instead.

## Report Text
`)
	b.WriteString("```\n")
	b.WriteString(text)
	b.WriteString("\n```\n")

	return b.String()
}

// SystemPrompt returns the shared system prompt for extraction.
func SystemPrompt() string {
	return systemPrompt
}

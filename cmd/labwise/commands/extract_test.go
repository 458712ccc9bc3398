package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/labwise/labwise/internal/output"
	"github.com/labwise/labwise/internal/telemetry"
)

func TestAppendStats(t *testing.T) {
	rec := telemetry.NewRecorder()
	rec.Record("anthropic", false, 2*time.Second)
	rec.Record("openai", true, time.Second)

	var buf bytes.Buffer
	w, err := output.NewWriter(&buf, output.FormatText)
	if err != nil {
		t.Fatal(err)
	}
	if err := appendStats(w, rec); err != nil {
		t.Fatalf("appendStats() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	for _, want := range []string{
		"anthropic: 1 attempt(s), 0% success",
		"openai: 1 attempt(s), 100% success",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

package provider

import (
	"context"
	"errors"
	"testing"
	"time"
)

const validReport = `Lab Report 2026-02-01
Hemoglobin: 14.2 g/dL (normal range 12-17.5)
Total Cholesterol: 220 mg/dL (H)`

const validJSON = `{
  "patient_details": {"name": "Jane Doe", "age": "44", "gender": "F"},
  "diagnosis": "Borderline hypercholesterolemia",
  "findings": [
    {"finding": "Total Cholesterol", "value": 220, "unit": "mg/dL", "status": "high"}
  ],
  "recommendations": "Repeat lipid panel in 3 months",
  "confidence_score": 90
}`

// testProvider builds a base around a scripted call sequence and records
// every sleep instead of actually sleeping.
func testProvider(cfg Config, responses []string, errs []error) (*base, *[]time.Duration, *int) {
	calls := 0
	sleeps := []time.Duration{}
	b := newBase("test", cfg, func(_ context.Context, _, _ string) (string, error) {
		idx := calls
		calls++
		if idx < len(errs) && errs[idx] != nil {
			return "", errs[idx]
		}
		if idx < len(responses) {
			return responses[idx], nil
		}
		return validJSON, nil
	})
	b.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return &b, &sleeps, &calls
}

func enabledConfig() Config {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	return cfg
}

func TestExtractMetricsSuccess(t *testing.T) {
	b, _, calls := testProvider(enabledConfig(), []string{validJSON}, nil)

	resp, err := b.ExtractMetrics(context.Background(), validReport, ReportContext{})
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
	if len(resp.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(resp.Findings))
	}
	if resp.Findings[0].Value != "220" {
		t.Errorf("value = %q, want 220", resp.Findings[0].Value)
	}
	if resp.Confidence != "90%" {
		t.Errorf("confidence = %q, want 90%%", resp.Confidence)
	}
}

func TestExtractMetricsRejectsShortInput(t *testing.T) {
	b, _, calls := testProvider(enabledConfig(), nil, nil)

	_, err := b.ExtractMetrics(context.Background(), "too short", ReportContext{})
	if err == nil {
		t.Fatal("expected input error")
	}
	if KindOf(err) != KindInput {
		t.Errorf("kind = %q, want input", KindOf(err))
	}
	if *calls != 0 {
		t.Errorf("backend called %d times for invalid input, want 0", *calls)
	}
}

func TestRetryOnServerError(t *testing.T) {
	srvErr := newError(KindServer, "test", "boom", nil)
	b, sleeps, calls := testProvider(enabledConfig(), []string{"", "", validJSON}, []error{srvErr, srvErr, nil})

	_, err := b.ExtractMetrics(context.Background(), validReport, ReportContext{})
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3", *calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", *sleeps, want)
	}
	for i := range want {
		if (*sleeps)[i] != want[i] {
			t.Errorf("sleep[%d] = %v, want %v", i, (*sleeps)[i], want[i])
		}
	}
}

func TestNonRetryableAbortsImmediately(t *testing.T) {
	authErr := newError(KindAuth, "test", "bad key", nil)
	b, sleeps, calls := testProvider(enabledConfig(), []string{""}, []error{authErr})

	_, err := b.ExtractMetrics(context.Background(), validReport, ReportContext{})
	if err == nil {
		t.Fatal("expected auth error")
	}
	if KindOf(err) != KindAuth {
		t.Errorf("kind = %q, want auth", KindOf(err))
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on auth failure)", *calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v, want no sleeps", *sleeps)
	}
}

func TestRetriesExhausted(t *testing.T) {
	srvErr := newError(KindServer, "test", "boom", nil)
	b, _, calls := testProvider(enabledConfig(), []string{"", "", ""}, []error{srvErr, srvErr, srvErr})

	_, err := b.ExtractMetrics(context.Background(), validReport, ReportContext{})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if KindOf(err) != KindExhausted {
		t.Errorf("kind = %q, want exhausted", KindOf(err))
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want max_retries (3)", *calls)
	}

	var pe *Error
	if !errors.As(err, &pe) || pe.Err == nil {
		t.Error("exhaustion error should wrap the last failure")
	}
}

func TestRetryAfterHintHonored(t *testing.T) {
	rlErr := &Error{Kind: KindRateLimit, Provider: "test", Message: "slow down", RetryAfter: 3 * time.Second}
	b, sleeps, _ := testProvider(enabledConfig(), []string{"", validJSON}, []error{rlErr, nil})

	if _, err := b.ExtractMetrics(context.Background(), validReport, ReportContext{}); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 3*time.Second {
		t.Errorf("sleeps = %v, want [3s]", *sleeps)
	}
}

func TestParseFailureIsRetried(t *testing.T) {
	b, _, calls := testProvider(enabledConfig(), []string{"no json here at all", validJSON}, nil)

	resp, err := b.ExtractMetrics(context.Background(), validReport, ReportContext{})
	if err != nil {
		t.Fatalf("expected recovery from parse failure, got %v", err)
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2", *calls)
	}
	if len(resp.Findings) != 1 {
		t.Errorf("findings = %d, want 1", len(resp.Findings))
	}
}

func TestBackoffCap(t *testing.T) {
	if got := backoff(1); got != 1*time.Second {
		t.Errorf("backoff(1) = %v, want 1s", got)
	}
	if got := backoff(4); got != 8*time.Second {
		t.Errorf("backoff(4) = %v, want 8s", got)
	}
	if got := backoff(10); got != maxBackoff {
		t.Errorf("backoff(10) = %v, want %v", got, maxBackoff)
	}
}

func TestAvailable(t *testing.T) {
	cfg := enabledConfig()
	b := newBase("test", cfg, nil)
	if !b.Available() {
		t.Error("enabled provider with key should be available")
	}

	cfg.APIKey = ""
	b = newBase("test", cfg, nil)
	if b.Available() {
		t.Error("provider without key should be unavailable")
	}

	cfg = enabledConfig()
	cfg.Enabled = false
	b = newBase("test", cfg, nil)
	if b.Available() {
		t.Error("disabled provider should be unavailable")
	}
}

package extraction

import (
	"context"
	"testing"
	"time"

	"github.com/labwise/labwise/internal/config"
	"github.com/labwise/labwise/internal/metric"
	"github.com/labwise/labwise/internal/provider"
	"github.com/labwise/labwise/internal/telemetry"
)

type fakeProvider struct {
	name      string
	available bool
	calls     int
	resp      provider.NormalizedResponse
	err       error
}

func (f *fakeProvider) ExtractMetrics(_ context.Context, _ string, _ provider.ReportContext) (provider.NormalizedResponse, error) {
	f.calls++
	if f.err != nil {
		return provider.NormalizedResponse{}, f.err
	}
	return f.resp, nil
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Model() string   { return "fake-model" }
func (f *fakeProvider) Available() bool { return f.available }

func testManager(t *testing.T) *config.Manager {
	t.Helper()
	cfg := config.Default()
	for name, p := range cfg.Providers {
		p.APIKey = "test-key"
		cfg.Providers[name] = p
	}
	return config.NewManager(cfg, nil)
}

func testContext() provider.ReportContext {
	return provider.ReportContext{
		ReportID:   42,
		PatientID:  7,
		ReportType: "lab_report",
		ReportDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func goodResponse() provider.NormalizedResponse {
	return provider.NormalizedResponse{
		Findings: []provider.RawFinding{
			{Name: "Total Cholesterol", Value: "220", Unit: "mg/dL", Status: "high"},
			{Name: "Hemoglobin", Value: "14.2", Unit: "g/dL", Status: "normal"},
		},
		Confidence: "90%",
		Model:      "fake-model",
	}
}

func newTestOrchestrator(t *testing.T, providers ...*fakeProvider) (*Orchestrator, *metric.MemoryStore) {
	t.Helper()
	pm := make(map[string]provider.Provider)
	for _, p := range providers {
		pm[p.name] = p
	}
	store := metric.NewMemoryStore()
	return NewOrchestrator(testManager(t), pm, store, telemetry.NewRecorder()), store
}

func TestStopOnFirstSuccess(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", available: true, resp: goodResponse()}
	secondary := &fakeProvider{name: "openai", available: true, resp: goodResponse()}
	o, _ := newTestOrchestrator(t, primary, secondary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if !res.Success {
		t.Fatal("expected success")
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary calls = %d, want 0 (stop on first success)", secondary.calls)
	}
	if res.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", res.Provider)
	}
	if res.AttemptsMade != 1 {
		t.Errorf("AttemptsMade = %d, want 1", res.AttemptsMade)
	}
}

func TestAuthErrorFallsThroughToSecondary(t *testing.T) {
	authErr := &provider.Error{Kind: provider.KindAuth, Provider: "anthropic", Message: "invalid key"}
	primary := &fakeProvider{name: "anthropic", available: true, err: authErr}
	secondary := &fakeProvider{name: "openai", available: true, resp: goodResponse()}
	tertiary := &fakeProvider{name: "gemini", available: true, resp: goodResponse()}
	o, _ := newTestOrchestrator(t, primary, secondary, tertiary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if !res.Success {
		t.Fatal("expected success via secondary")
	}
	if secondary.calls != 1 {
		t.Errorf("secondary calls = %d, want exactly 1", secondary.calls)
	}
	if tertiary.calls != 0 {
		t.Errorf("tertiary calls = %d, want 0", tertiary.calls)
	}
	if res.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", res.Provider)
	}
	if len(res.Attempts) != 2 {
		t.Fatalf("len(Attempts) = %d, want 2", len(res.Attempts))
	}
	if res.Attempts[0].Success || res.Attempts[0].Retryable {
		t.Errorf("first attempt should be a non-retryable failure, got %+v", res.Attempts[0])
	}
}

func TestAllProvidersFailed(t *testing.T) {
	srvErr := &provider.Error{Kind: provider.KindServer, Provider: "x", Message: "boom"}
	providers := []*fakeProvider{
		{name: "anthropic", available: true, err: srvErr},
		{name: "openai", available: true, err: srvErr},
		{name: "gemini", available: true, err: srvErr},
	}
	o, store := newTestOrchestrator(t, providers...)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() must not return an error for provider exhaustion, got %v", err)
	}
	if res.Success {
		t.Fatal("expected failure envelope")
	}
	if res.FailureReason != ReasonAllProvidersFailed {
		t.Errorf("FailureReason = %q, want %q", res.FailureReason, ReasonAllProvidersFailed)
	}
	if res.AttemptsMade != 3 {
		t.Errorf("AttemptsMade = %d, want 3", res.AttemptsMade)
	}
	if len(res.Metrics) != 0 {
		t.Errorf("Metrics = %d records, want none", len(res.Metrics))
	}
	if got, _ := store.ListByPatient(context.Background(), 7, 0); len(got) != 0 {
		t.Errorf("store has %d metrics, want 0", len(got))
	}
}

func TestFallbackDisabledStopsAtFirstFailure(t *testing.T) {
	srvErr := &provider.Error{Kind: provider.KindServer, Provider: "anthropic", Message: "boom"}
	primary := &fakeProvider{name: "anthropic", available: true, err: srvErr}
	secondary := &fakeProvider{name: "openai", available: true, resp: goodResponse()}

	pm := map[string]provider.Provider{"anthropic": primary, "openai": secondary}
	cfg := config.Default()
	for name, p := range cfg.Providers {
		p.APIKey = "test-key"
		cfg.Providers[name] = p
	}
	cfg.FallbackEnabled = false
	o := NewOrchestrator(config.NewManager(cfg, nil), pm, metric.NewMemoryStore(), nil)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if res.Success {
		t.Fatal("expected failure")
	}
	if secondary.calls != 0 {
		t.Errorf("secondary calls = %d, want 0 with fallback disabled", secondary.calls)
	}
	if res.AttemptsMade != 1 {
		t.Errorf("AttemptsMade = %d, want 1", res.AttemptsMade)
	}
}

func TestUnavailableProviderSkipped(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", available: false}
	secondary := &fakeProvider{name: "openai", available: true, resp: goodResponse()}
	o, _ := newTestOrchestrator(t, primary, secondary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if primary.calls != 0 {
		t.Errorf("unavailable primary was called %d times", primary.calls)
	}
	if !res.Success || res.Provider != "openai" {
		t.Errorf("expected success via openai, got %+v", res)
	}
}

func TestNoProvidersAvailable(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.FailureReason != ReasonNoProvidersAvailable {
		t.Errorf("FailureReason = %q, want %q", res.FailureReason, ReasonNoProvidersAvailable)
	}
	if res.AttemptsMade != 0 {
		t.Errorf("AttemptsMade = %d, want 0", res.AttemptsMade)
	}
}

func TestUnmappableFindingSkipped(t *testing.T) {
	resp := goodResponse()
	resp.Findings = append(resp.Findings, provider.RawFinding{
		Name: "Totally Unknown Parameter XYZ", Value: "5", Unit: "units",
	})
	primary := &fakeProvider{name: "anthropic", available: true, resp: resp}
	o, _ := newTestOrchestrator(t, primary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if !res.Success {
		t.Fatal("a mapping miss must not fail the batch")
	}
	if len(res.Metrics) != 2 {
		t.Errorf("Metrics = %d, want 2 (unknown parameter skipped)", len(res.Metrics))
	}
}

func TestPlaceholderFindingsNeverPersisted(t *testing.T) {
	resp := goodResponse()
	resp.Findings = append(resp.Findings,
		provider.RawFinding{Name: "N/A", Value: "N/A"},
		provider.RawFinding{Name: "Hemoglobin", Value: "N/A", Unit: "g/dL"},
	)
	primary := &fakeProvider{name: "anthropic", available: true, resp: resp}
	o, store := newTestOrchestrator(t, primary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if len(res.Metrics) != 2 {
		t.Errorf("Metrics = %d, want 2 (placeholder findings dropped)", len(res.Metrics))
	}
	persisted, _ := store.ListByPatient(context.Background(), 7, 0)
	for _, m := range persisted {
		if m.Value == "N/A" {
			t.Errorf("placeholder value persisted: %+v", m)
		}
	}
}

func TestMetricFieldsAndStatus(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", available: true, resp: goodResponse()}
	o, _ := newTestOrchestrator(t, primary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}

	var chol *metric.HealthMetric
	for _, m := range res.Metrics {
		if m.Type == "total_cholesterol" {
			chol = m
		}
	}
	if chol == nil {
		t.Fatal("total_cholesterol metric not created")
	}
	if chol.Status != metric.StatusBorderline {
		t.Errorf("cholesterol 220 status = %q, want borderline", chol.Status)
	}
	if chol.PatientID != 7 {
		t.Errorf("PatientID = %d, want 7", chol.PatientID)
	}
	if chol.Source != metric.SourceReport {
		t.Errorf("Source = %q, want report", chol.Source)
	}
	if chol.Category != "heart" {
		t.Errorf("Category = %q, want heart", chol.Category)
	}
	if !chol.MeasuredAt.Equal(testContext().ReportDate) {
		t.Errorf("MeasuredAt = %v, want report date", chol.MeasuredAt)
	}

	want := []string{"blood", "heart"}
	if len(res.Categories) != 2 || res.Categories[0] != want[0] || res.Categories[1] != want[1] {
		t.Errorf("Categories = %v, want %v", res.Categories, want)
	}
}

func TestTelemetryRecorded(t *testing.T) {
	srvErr := &provider.Error{Kind: provider.KindServer, Provider: "anthropic", Message: "boom"}
	primary := &fakeProvider{name: "anthropic", available: true, err: srvErr}
	secondary := &fakeProvider{name: "openai", available: true, resp: goodResponse()}

	pm := map[string]provider.Provider{"anthropic": primary, "openai": secondary}
	rec := telemetry.NewRecorder()
	o := NewOrchestrator(testManager(t), pm, metric.NewMemoryStore(), rec)

	if _, err := o.ExtractMetrics(context.Background(), "report text", testContext()); err != nil {
		t.Fatal(err)
	}

	if rep := rec.Report("anthropic"); rep.Attempts != 1 || rep.Successes != 0 {
		t.Errorf("anthropic telemetry = %d/%d, want 1 attempt 0 successes", rep.Successes, rep.Attempts)
	}
	if rep := rec.Report("openai"); rep.Attempts != 1 || rep.Successes != 1 {
		t.Errorf("openai telemetry = %d/%d, want 1 attempt 1 success", rep.Successes, rep.Attempts)
	}
}

func TestOutOfRangeValueStoredNotDropped(t *testing.T) {
	resp := provider.NormalizedResponse{
		Findings: []provider.RawFinding{
			{Name: "WBC", Value: "7.5", Unit: "x10^3/µL"},
			{Name: "Platelet Count", Value: "250", Unit: "x10^3/µL"},
			{Name: "TSH", Value: "900", Unit: "mIU/L"},
		},
		Model: "fake-model",
	}
	primary := &fakeProvider{name: "anthropic", available: true, resp: resp}
	o, store := newTestOrchestrator(t, primary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if len(res.Metrics) != 3 {
		t.Fatalf("Metrics = %d, want 3 (range findings are advisory, not dropped)", len(res.Metrics))
	}
	persisted, _ := store.ListByPatient(context.Background(), 7, 0)
	if len(persisted) != 3 {
		t.Errorf("persisted = %d, want 3", len(persisted))
	}
	for _, m := range res.Metrics {
		if m.Type == "wbc_count" && m.Status != metric.StatusNormal {
			t.Errorf("wbc 7.5 status = %q, want normal", m.Status)
		}
		if m.Type == "platelet_count" && m.Status != metric.StatusNormal {
			t.Errorf("platelet 250 status = %q, want normal", m.Status)
		}
	}
}

func TestQualityReportAggregated(t *testing.T) {
	resp := goodResponse()
	resp.Findings = append(resp.Findings,
		provider.RawFinding{Name: "TSH", Value: "900", Unit: "mIU/L"})
	primary := &fakeProvider{name: "anthropic", available: true, resp: resp}
	o, _ := newTestOrchestrator(t, primary)

	res, err := o.ExtractMetrics(context.Background(), "report text", testContext())
	if err != nil {
		t.Fatalf("ExtractMetrics() error = %v", err)
	}
	if res.Quality == nil {
		t.Fatal("Quality report not set on success")
	}
	if res.Quality.ErrorCounts["critical_bound"] != 1 {
		t.Errorf("critical_bound count = %d, want 1", res.Quality.ErrorCounts["critical_bound"])
	}
	if res.Quality.AverageQuality >= 1 {
		t.Errorf("AverageQuality = %v, want < 1", res.Quality.AverageQuality)
	}
	if len(res.Metrics) != 3 {
		t.Errorf("Metrics = %d, want 3", len(res.Metrics))
	}
}

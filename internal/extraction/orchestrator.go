// Package extraction orchestrates AI metric extraction across providers:
// it tries providers in configured order, maps each returned finding onto
// the standard taxonomy, validates it and persists every structurally
// usable metric, recording validation quality as it goes.
package extraction

import (
	"context"
	"sort"
	"time"

	"github.com/labwise/labwise/internal/config"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/internal/mapping"
	"github.com/labwise/labwise/internal/metric"
	"github.com/labwise/labwise/internal/provider"
	"github.com/labwise/labwise/internal/telemetry"
	"github.com/labwise/labwise/internal/validate"
)

// Orchestrator drives one extraction call through the provider fallback
// chain. Safe for concurrent use; each call's state is local.
type Orchestrator struct {
	cfg       *config.Manager
	providers map[string]provider.Provider
	mapper    *mapping.Mapper
	validator *validate.Validator
	store     metric.Store
	recorder  *telemetry.Recorder
	now       func() time.Time
}

// NewOrchestrator wires an Orchestrator. The recorder may be nil to
// disable telemetry.
func NewOrchestrator(cfg *config.Manager, providers map[string]provider.Provider, store metric.Store, recorder *telemetry.Recorder) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		providers: providers,
		mapper:    mapping.NewMapper(),
		validator: validate.New(),
		store:     store,
		recorder:  recorder,
		now:       time.Now,
	}
}

// ExtractMetrics is the single entry point used by the report pipeline.
// It never returns an error for provider failures: total exhaustion is
// reported in the Result envelope so the caller can proceed without
// AI-derived findings. Only persistence failures surface as errors.
func (o *Orchestrator) ExtractMetrics(ctx context.Context, rawText string, rc provider.ReportContext) (*Result, error) {
	start := o.now()
	res := &Result{Metrics: []*metric.HealthMetric{}, Categories: []string{}}

	ordered := o.orderedAvailable(ctx)
	if len(ordered) == 0 {
		logger.Warn("no extraction providers available",
			"report_id", rc.ReportID)
		res.FailureReason = ReasonNoProvidersAvailable
		res.Duration = o.now().Sub(start)
		return res, nil
	}

	fallback := o.cfg.FallbackEnabled(ctx)
	stopOnSuccess := o.cfg.StopOnFirstSuccess(ctx)

	for _, p := range ordered {
		attemptStart := o.now()
		resp, err := p.ExtractMetrics(ctx, rawText, rc)
		elapsed := o.now().Sub(attemptStart)

		attempt := Attempt{Provider: p.Name(), Duration: elapsed}
		res.AttemptsMade++

		if err != nil {
			attempt.Error = err.Error()
			attempt.Retryable = provider.IsRetryable(err)
			res.Attempts = append(res.Attempts, attempt)
			o.record(p.Name(), false, elapsed)
			logger.Warn("provider extraction failed",
				"provider", p.Name(),
				"report_id", rc.ReportID,
				"retryable", attempt.Retryable,
				"error", err)
			if !fallback {
				break
			}
			continue
		}

		attempt.Success = true
		res.Attempts = append(res.Attempts, attempt)
		o.record(p.Name(), true, elapsed)

		if res.Success {
			// A later success only contributes to the attempt log; the
			// first success stays authoritative.
			continue
		}

		metrics, categories, quality, storeErr := o.persistFindings(ctx, resp.Findings, rc)
		if storeErr != nil {
			res.Duration = o.now().Sub(start)
			return res, storeErr
		}

		res.Success = true
		res.Provider = p.Name()
		res.Model = resp.Model
		res.Metrics = metrics
		res.Categories = categories
		res.Quality = quality
		logger.Info("extraction succeeded",
			"provider", p.Name(),
			"report_id", rc.ReportID,
			"findings", len(resp.Findings),
			"metrics_created", len(metrics),
			"avg_quality", quality.AverageQuality)

		if stopOnSuccess {
			break
		}
	}

	if !res.Success {
		res.FailureReason = ReasonAllProvidersFailed
		logger.Warn("all extraction providers failed",
			"report_id", rc.ReportID,
			"attempts", res.AttemptsMade)
	}
	res.Duration = o.now().Sub(start)
	return res, nil
}

// orderedAvailable resolves the configured ordering to concrete provider
// instances, dropping ids with no registered implementation.
func (o *Orchestrator) orderedAvailable(ctx context.Context) []provider.Provider {
	var out []provider.Provider
	for _, id := range o.cfg.OrderedProviders(ctx) {
		p, ok := o.providers[id]
		if !ok {
			logger.Warn("configured provider has no implementation", "provider", id)
			continue
		}
		if !p.Available() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// persistFindings maps, validates and stores each finding. A mapping
// miss or a structurally unusable value skips that finding only; range
// and unit issues are advisory and the metric is stored anyway. A store
// error aborts the batch. The returned QualityReport aggregates the
// batch validation outcome for monitoring.
func (o *Orchestrator) persistFindings(ctx context.Context, findings []provider.RawFinding, rc provider.ReportContext) ([]*metric.HealthMetric, []string, *QualityReport, error) {
	metrics := []*metric.HealthMetric{}
	categorySet := make(map[string]bool)

	type candidate struct {
		finding provider.RawFinding
		match   mapping.Match
		unit    string
	}
	var kept []candidate
	var inputs []validate.Input
	for _, f := range findings {
		match, ok := o.mapper.MapToStandardType(f.Name, mapping.Context{
			Value:  f.Value,
			Unit:   f.Unit,
			Status: f.Status,
		})
		if !ok {
			logger.Debug("finding has no standard mapping, skipped",
				"name", f.Name, "report_id", rc.ReportID)
			continue
		}

		unit := match.DetectedUnit
		if unit == "" {
			unit = match.Mapping.DefaultUnit
		}
		kept = append(kept, candidate{finding: f, match: match, unit: unit})
		inputs = append(inputs, validate.Input{
			Type:  match.Mapping.Type,
			Value: f.Value,
			Unit:  unit,
		})
	}

	batch := o.validator.ValidateBatch(inputs)
	for i, c := range kept {
		f, match, unit := c.finding, c.match, c.unit
		vr := batch.Results[i]
		if !vr.Usable() {
			logger.Warn("finding is structurally unusable, skipped",
				"type", match.Mapping.Type,
				"value", f.Value,
				"quality", vr.QualityScore)
			continue
		}
		if !vr.Valid {
			logger.Warn("finding stored with validation errors",
				"type", match.Mapping.Type,
				"value", f.Value,
				"errors", len(vr.Errors),
				"quality", vr.QualityScore)
		}

		draft := metric.Draft{
			PatientID:   rc.PatientID,
			Type:        match.Mapping.Type,
			Value:       f.Value,
			Unit:        unit,
			MeasuredAt:  measuredAt(rc),
			Notes:       f.Description,
			Source:      metric.SourceReport,
			Context:     rc.ReportType,
			Status:      CalculateStatus(match.Mapping.Type, f.Value),
			Category:    match.Mapping.Category,
			Subcategory: match.Mapping.Subcategory,
		}
		if err := draft.Validate(); err != nil {
			logger.Warn("metric draft rejected", "type", draft.Type, "error", err)
			continue
		}

		m, err := o.store.Create(ctx, draft)
		if err != nil {
			return nil, nil, nil, err
		}
		metrics = append(metrics, m)
		categorySet[m.Category] = true
	}

	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	quality := &QualityReport{
		AverageQuality: batch.AverageQuality,
		ErrorCounts:    batch.ErrorCounts,
		WarningCounts:  batch.WarningCounts,
	}
	return metrics, categories, quality, nil
}

func (o *Orchestrator) record(providerName string, success bool, d time.Duration) {
	if o.recorder != nil {
		o.recorder.Record(providerName, success, d)
	}
}

func measuredAt(rc provider.ReportContext) time.Time {
	if !rc.ReportDate.IsZero() {
		return rc.ReportDate
	}
	return time.Now()
}

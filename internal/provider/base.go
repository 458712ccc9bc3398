package provider

import (
	"context"
	"errors"
	"time"

	"github.com/labwise/labwise/internal/logger"
)

// maxBackoff caps the exponential retry delay.
const maxBackoff = 10 * time.Second

// callFunc performs one wire call to a backend and returns the raw
// textual response. Implementations classify their own SDK errors into
// the provider error taxonomy where they can.
type callFunc func(ctx context.Context, system, user string) (string, error)

// base carries the shared extraction template. Concrete providers embed
// it and supply only their name, model and wire call.
type base struct {
	name  string
	model string
	cfg   Config
	call  callFunc
	sleep func(time.Duration) // injectable for tests
}

func newBase(name string, cfg Config, call callFunc) base {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return base{
		name:  name,
		model: cfg.Model,
		cfg:   cfg,
		call:  call,
		sleep: time.Sleep,
	}
}

// Name returns the provider identifier.
func (b *base) Name() string { return b.name }

// Model returns the configured model identifier.
func (b *base) Model() string { return b.model }

// Available reports whether the provider is enabled and has credentials.
func (b *base) Available() bool {
	return b.cfg.Enabled && b.cfg.APIKey != ""
}

// ExtractMetrics runs the shared template: validate input, clean text,
// build the prompt, call the backend with retry, parse and normalize.
func (b *base) ExtractMetrics(ctx context.Context, rawText string, rc ReportContext) (NormalizedResponse, error) {
	if err := validateInput(b.name, rawText); err != nil {
		return NormalizedResponse{}, err
	}

	text := CleanText(rawText)
	if len(text) > condenseThreshold {
		condensed := condenseClinicalText(text)
		logger.Debug("condensed oversized report text",
			"provider", b.name,
			"original_bytes", len(text),
			"condensed_bytes", len(condensed))
		text = condensed
	}

	prompt := BuildPrompt(text, rc)

	resp, err := b.callWithRetry(ctx, SystemPrompt(), prompt)
	if err != nil {
		return NormalizedResponse{}, err
	}
	resp.Model = b.model
	return resp, nil
}

// callWithRetry attempts the wire call up to MaxRetries times, parsing
// each response. Retryable failures back off exponentially, capped at
// maxBackoff; non-retryable failures abort immediately.
func (b *base) callWithRetry(ctx context.Context, system, user string) (NormalizedResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= b.cfg.MaxRetries; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
		content, err := b.call(cctx, system, user)
		cancel()

		if err == nil {
			resp, perr := parseResponse(b.name, content)
			if perr == nil {
				return resp, nil
			}
			err = perr
		}

		var pe *Error
		if !errors.As(err, &pe) {
			pe = newError(KindServer, b.name, "request failed", err)
		}
		lastErr = pe

		if !pe.Retryable() {
			logger.Debug("non-retryable provider failure",
				"provider", b.name, "kind", string(pe.Kind), "error", pe)
			return NormalizedResponse{}, pe
		}

		if attempt < b.cfg.MaxRetries {
			delay := backoff(attempt)
			if pe.RetryAfter > 0 && pe.RetryAfter < maxBackoff {
				delay = pe.RetryAfter
			}
			logger.Debug("retrying provider call",
				"provider", b.name,
				"attempt", attempt,
				"max_retries", b.cfg.MaxRetries,
				"delay", delay,
				"error", pe)
			b.sleep(delay)
		}
	}

	return NormalizedResponse{}, &Error{
		Kind:     KindExhausted,
		Provider: b.name,
		Message:  "all retries exhausted",
		Err:      lastErr,
	}
}

// backoff returns min(2^(attempt-1), 10) seconds.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

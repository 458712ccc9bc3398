package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies a provider failure. The kind decides whether the retry
// loop may try again and whether the orchestrator should fall through to
// the next provider.
type Kind string

const (
	// KindInput marks invalid input text. Non-retryable.
	KindInput Kind = "input"

	// KindAuth marks authentication/authorization failures. Non-retryable.
	KindAuth Kind = "auth"

	// KindQuota marks exhausted quota or billing failures. Non-retryable.
	KindQuota Kind = "quota"

	// KindRateLimit marks transient rate limiting. Retryable, may carry a
	// retry-after hint.
	KindRateLimit Kind = "rate_limit"

	// KindServer marks backend-side failures (5xx, network). Retryable.
	KindServer Kind = "server"

	// KindParse marks an unparseable response after repair. Retryable.
	KindParse Kind = "parse"

	// KindExhausted marks a terminal failure after all retries. Wraps the
	// last underlying error.
	KindExhausted Kind = "exhausted"
)

// Error is a classified provider failure.
type Error struct {
	Kind       Kind
	Provider   string
	Message    string
	RetryAfter time.Duration // optional hint for KindRateLimit
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt against the same provider may
// succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServer, KindParse:
		return true
	}
	return false
}

func newError(kind Kind, providerName, msg string, err error) *Error {
	return &Error{Kind: kind, Provider: providerName, Message: msg, Err: err}
}

// IsRetryable reports whether err is a retryable provider error.
func IsRetryable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Retryable()
	}
	return false
}

// KindOf returns the classification of err, or "" if it is not a
// provider error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// classifyHTTP maps an HTTP status from a backend SDK to the error
// taxonomy. Quota exhaustion sometimes surfaces as 429; the message is
// consulted to tell it apart from transient rate limiting.
func classifyHTTP(providerName string, status int, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	switch {
	case status == 400 || status == 404 || status == 422:
		return newError(KindInput, providerName, "malformed request", err)
	case status == 401 || status == 403:
		return newError(KindAuth, providerName, "authentication failed", err)
	case status == 402:
		return newError(KindQuota, providerName, "quota exhausted", err)
	case status == 429:
		if strings.Contains(strings.ToLower(msg), "quota") || strings.Contains(strings.ToLower(msg), "billing") {
			return newError(KindQuota, providerName, "quota exhausted", err)
		}
		return newError(KindRateLimit, providerName, "rate limited", err)
	case status >= 500:
		return newError(KindServer, providerName, "backend error", err)
	}
	return newError(KindServer, providerName, "request failed", err)
}

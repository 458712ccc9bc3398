package config

import (
	"context"
	"fmt"
	"sort"
	"strconv"
)

// Override keys understood by the manager.
const (
	KeyPrimary            = "providers.primary"
	KeySecondary          = "providers.secondary"
	KeyFallbackEnabled    = "extraction.fallback_enabled"
	KeyStopOnFirstSuccess = "extraction.stop_on_first_success"
)

// Manager answers provider-selection questions by merging static
// configuration with the optional override layer.
type Manager struct {
	static *Config
	cache  *overrideCache
}

// NewManager creates a Manager. The override store may be nil, in which
// case static configuration is authoritative.
func NewManager(static *Config, overrides OverrideStore) *Manager {
	return &Manager{
		static: static,
		cache:  newOverrideCache(overrides, static.OverrideTTL),
	}
}

func (m *Manager) resolve(ctx context.Context, key, staticVal string) string {
	if !m.static.AllowOverride {
		return staticVal
	}
	overrideVal, _ := m.cache.get(ctx, key)
	return Resolve(staticVal, overrideVal, m.static.AllowOverride)
}

func (m *Manager) resolveBool(ctx context.Context, key string, staticVal bool) bool {
	raw := m.resolve(ctx, key, strconv.FormatBool(staticVal))
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return staticVal
	}
	return parsed
}

// PrimaryProvider returns the effective primary provider id.
func (m *Manager) PrimaryProvider(ctx context.Context) string {
	return m.resolve(ctx, KeyPrimary, m.static.Primary)
}

// SecondaryProvider returns the effective secondary provider id, if any.
func (m *Manager) SecondaryProvider(ctx context.Context) (string, bool) {
	s := m.resolve(ctx, KeySecondary, m.static.Secondary)
	return s, s != ""
}

// FallbackEnabled reports whether failed providers fall through to the
// next in priority order.
func (m *Manager) FallbackEnabled(ctx context.Context) bool {
	return m.resolveBool(ctx, KeyFallbackEnabled, m.static.FallbackEnabled)
}

// StopOnFirstSuccess reports whether extraction terminates at the first
// provider that returns data.
func (m *Manager) StopOnFirstSuccess(ctx context.Context) bool {
	return m.resolveBool(ctx, KeyStopOnFirstSuccess, m.static.StopOnFirstSuccess)
}

// ProviderConfig returns the static configuration for a provider id.
// Requesting an unknown id is a programming error and panics.
func (m *Manager) ProviderConfig(id string) ProviderConfig {
	p, ok := m.static.Providers[id]
	if !ok {
		panic(fmt.Sprintf("config: unknown provider id %q", id))
	}
	return p
}

// OrderedProviders returns the available providers to try, in strict
// order: primary first, secondary second if distinct, then the rest by
// ascending priority. Unavailable providers are excluded.
func (m *Manager) OrderedProviders(ctx context.Context) []string {
	primary := m.PrimaryProvider(ctx)
	secondary, hasSecondary := m.SecondaryProvider(ctx)

	var ordered []string
	seen := make(map[string]bool)

	appendIfAvailable := func(id string) {
		if seen[id] {
			return
		}
		if p, ok := m.static.Providers[id]; ok && p.available() {
			ordered = append(ordered, id)
		}
		seen[id] = true
	}

	appendIfAvailable(primary)
	if hasSecondary && secondary != primary {
		appendIfAvailable(secondary)
	}

	rest := make([]string, 0, len(m.static.Providers))
	for id := range m.static.Providers {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		pi, pj := m.static.Providers[rest[i]].Priority, m.static.Providers[rest[j]].Priority
		if pi != pj {
			return pi < pj
		}
		return rest[i] < rest[j]
	})
	for _, id := range rest {
		appendIfAvailable(id)
	}

	return ordered
}

// SetOverride writes an override and invalidates its cache entry so the
// next read observes it.
func (m *Manager) SetOverride(ctx context.Context, key, value string) error {
	if m.cache.store == nil {
		return fmt.Errorf("config: no override store configured")
	}
	if err := m.cache.store.Set(ctx, key, value); err != nil {
		return err
	}
	m.cache.invalidate(key)
	return nil
}

// Package telemetry records per-provider extraction outcomes in hourly
// buckets so operators can see recent success rates and latency without
// an external metrics stack.
package telemetry

import (
	"sort"
	"sync"
	"time"
)

// retention bounds how far back Report looks. Buckets older than this
// are pruned on write.
const retention = 24 * time.Hour

type bucket struct {
	hour          time.Time
	attempts      int
	successes     int
	totalDuration time.Duration
}

// Recorder aggregates extraction attempts keyed by provider and hour.
// Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	buckets map[string][]bucket
	now     func() time.Time
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		buckets: make(map[string][]bucket),
		now:     time.Now,
	}
}

// Record notes one provider attempt and its outcome.
func (r *Recorder) Record(providerName string, success bool, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	hour := now.Truncate(time.Hour)

	buckets := r.buckets[providerName]
	var b *bucket
	if n := len(buckets); n > 0 && buckets[n-1].hour.Equal(hour) {
		b = &buckets[n-1]
	} else {
		buckets = append(buckets, bucket{hour: hour})
		b = &buckets[len(buckets)-1]
	}

	b.attempts++
	if success {
		b.successes++
	}
	b.totalDuration += duration

	// Prune expired buckets while we hold the lock.
	cutoff := now.Add(-retention)
	for len(buckets) > 0 && buckets[0].hour.Before(cutoff) {
		buckets = buckets[1:]
	}
	r.buckets[providerName] = buckets
}

// HourlyStats is one hour of aggregated outcomes for a provider.
type HourlyStats struct {
	Hour        time.Time     `json:"hour"`
	Attempts    int           `json:"attempts"`
	Successes   int           `json:"successes"`
	SuccessRate float64       `json:"success_rate"`
	AvgDuration time.Duration `json:"avg_duration"`
}

// ProviderReport summarizes a provider's recent history.
type ProviderReport struct {
	Provider    string        `json:"provider"`
	Attempts    int           `json:"attempts"`
	Successes   int           `json:"successes"`
	SuccessRate float64       `json:"success_rate"`
	AvgDuration time.Duration `json:"avg_duration"`
	Hourly      []HourlyStats `json:"hourly"`
}

// Report aggregates the retained history for one provider. A provider
// with no recorded attempts yields a zero-valued report.
func (r *Recorder) Report(providerName string) ProviderReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := ProviderReport{Provider: providerName}
	cutoff := r.now().Add(-retention)

	var totalDuration time.Duration
	for _, b := range r.buckets[providerName] {
		if b.hour.Before(cutoff) {
			continue
		}
		rate := 0.0
		if b.attempts > 0 {
			rate = float64(b.successes) / float64(b.attempts)
		}
		var avg time.Duration
		if b.attempts > 0 {
			avg = b.totalDuration / time.Duration(b.attempts)
		}
		rep.Hourly = append(rep.Hourly, HourlyStats{
			Hour:        b.hour,
			Attempts:    b.attempts,
			Successes:   b.successes,
			SuccessRate: rate,
			AvgDuration: avg,
		})
		rep.Attempts += b.attempts
		rep.Successes += b.successes
		totalDuration += b.totalDuration
	}

	if rep.Attempts > 0 {
		rep.SuccessRate = float64(rep.Successes) / float64(rep.Attempts)
		rep.AvgDuration = totalDuration / time.Duration(rep.Attempts)
	}
	return rep
}

// Providers lists the providers with retained history, sorted by name.
func (r *Recorder) Providers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.buckets))
	for name := range r.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

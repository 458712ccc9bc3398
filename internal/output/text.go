package output

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/labwise/labwise/internal/extraction"
	"github.com/labwise/labwise/internal/telemetry"
)

// TextWriter renders results in a human-readable form. Extraction
// envelopes and telemetry reports get dedicated layouts; anything else
// falls back to a %+v dump.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write renders a single item.
func (w *TextWriter) Write(data any) error {
	switch v := data.(type) {
	case *extraction.Result:
		return w.writeResult(v)
	case extraction.Result:
		return w.writeResult(&v)
	case telemetry.ProviderReport:
		return w.writeReport(v)
	default:
		_, err := fmt.Fprintf(w.w, "%+v\n", data)
		return err
	}
}

// WriteAll renders multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *TextWriter) writeResult(r *extraction.Result) error {
	if r.Success {
		fmt.Fprintf(w.w, "Extraction succeeded via %s (%s) in %s, %d attempt(s)\n",
			r.Provider, r.Model, r.Duration.Round(time.Millisecond), r.AttemptsMade)
	} else {
		fmt.Fprintf(w.w, "Extraction failed (%s) after %d attempt(s) in %s\n",
			r.FailureReason, r.AttemptsMade, r.Duration.Round(time.Millisecond))
	}

	for _, a := range r.Attempts {
		status := "ok"
		if !a.Success {
			status = "failed"
			if a.Retryable {
				status = "failed (retryable)"
			}
		}
		fmt.Fprintf(w.w, "  attempt %-12s %-18s %s\n", a.Provider, status, a.Duration.Round(time.Millisecond))
	}

	if len(r.Metrics) > 0 {
		fmt.Fprintf(w.w, "\n%d metric(s) created:\n", len(r.Metrics))
		tw := tabwriter.NewWriter(w.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tVALUE\tUNIT\tSTATUS\tCATEGORY")
		for _, m := range r.Metrics {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				m.Type, m.Value, m.Unit, m.Status, m.Category)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *TextWriter) writeReport(r telemetry.ProviderReport) error {
	fmt.Fprintf(w.w, "%s: %d attempt(s), %.0f%% success, avg %s\n",
		r.Provider, r.Attempts, r.SuccessRate*100, r.AvgDuration.Round(time.Millisecond))
	for _, h := range r.Hourly {
		fmt.Fprintf(w.w, "  %s  %3d attempts  %.0f%% success  avg %s\n",
			h.Hour.Format("2006-01-02 15:00"), h.Attempts, h.SuccessRate*100, h.AvgDuration.Round(time.Millisecond))
	}
	return nil
}

// Flush writes any buffered data.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}

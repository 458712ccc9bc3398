package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/labwise/labwise/internal/config"
	"github.com/labwise/labwise/internal/extraction"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/internal/metric"
	"github.com/labwise/labwise/internal/output"
	"github.com/labwise/labwise/internal/provider"
	"github.com/labwise/labwise/internal/telemetry"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract health metrics from medical report text",
	Long: `Extract structured health metrics from a medical report.

The report text is read from --file or stdin; the surrounding pipeline
is expected to have already produced it via OCR or PDF text extraction.
Extracted findings are mapped onto the standard metric taxonomy,
validated and persisted (to Postgres when database_url is configured,
otherwise kept in memory for the duration of the call).

Examples:
  # From a file
  labwise extract -f report.txt --patient-id 42 --report-id 7

  # From stdin, tagging the report type and date
  cat report.txt | labwise extract --patient-id 42 \
      --report-type lab_report --report-date 2026-02-01`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()

	flags.StringP("file", "f", "", "report text file (default: stdin)")
	flags.Int64("patient-id", 0, "patient id the metrics belong to (required)")
	flags.Int64("report-id", 0, "source report id")
	flags.String("report-type", "lab_report", "report type tag")
	flags.String("report-date", "", "report date (YYYY-MM-DD, default: today)")
	flags.Bool("ocr", false, "mark the input as OCR-derived text")

	flags.String("primary", "", "override the primary provider for this run")

	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
	flags.Bool("stats", false, "append per-provider attempt statistics to the output")

	_ = extractCmd.MarkFlagRequired("patient-id")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rawText, err := readInput(cmd)
	if err != nil {
		logError("failed to read report text: %v", err)
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return err
	}
	if primary, _ := cmd.Flags().GetString("primary"); primary != "" {
		if _, ok := cfg.Providers[primary]; !ok {
			return fmt.Errorf("unknown provider %q", primary)
		}
		cfg.Primary = primary
	}

	store, overrides, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		logError("failed to connect to database: %v", err)
		return err
	}
	defer cleanup()

	providers, err := buildProviders(cfg)
	if err != nil {
		logError("%v", err)
		return err
	}

	manager := config.NewManager(cfg, overrides)
	recorder := telemetry.NewRecorder()
	orch := extraction.NewOrchestrator(manager, providers, store, recorder)

	rc := provider.ReportContext{
		PatientID:  mustInt64(cmd, "patient-id"),
		ReportID:   mustInt64(cmd, "report-id"),
		ReportType: mustString(cmd, "report-type"),
		ReportDate: reportDate(cmd),
		HasOCRData: mustBool(cmd, "ocr"),
	}

	logger.Debug("starting extraction",
		"patient_id", rc.PatientID,
		"report_id", rc.ReportID,
		"input_bytes", len(rawText))

	res, err := orch.ExtractMetrics(ctx, rawText, rc)
	if err != nil {
		logError("extraction aborted: %v", err)
		return err
	}

	return writeResult(cmd, res, recorder)
}

func readInput(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// buildStores picks Postgres-backed stores when a database URL is
// configured, in-memory stores otherwise.
func buildStores(ctx context.Context, cfg *config.Config) (metric.Store, config.OverrideStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Debug("no database configured, using in-memory store")
		return metric.NewMemoryStore(), nil, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return metric.NewPGStore(pool), config.NewPGOverrideStore(pool), pool.Close, nil
}

// buildProviders instantiates every registered backend that has
// configuration. Unavailable ones are kept; the orchestrator skips them.
func buildProviders(cfg *config.Config) (map[string]provider.Provider, error) {
	providers := make(map[string]provider.Provider)
	for _, name := range provider.Names() {
		pc, ok := cfg.Providers[name]
		if !ok {
			continue
		}
		p, err := provider.New(name, provider.Config{
			Enabled:    pc.Enabled,
			APIKey:     pc.APIKey,
			BaseURL:    pc.BaseURL,
			Model:      pc.Model,
			MaxRetries: pc.MaxRetries,
			Timeout:    pc.Timeout,
			Priority:   pc.Priority,
		})
		if err != nil {
			return nil, err
		}
		providers[name] = p
	}
	return providers, nil
}

func writeResult(cmd *cobra.Command, res *extraction.Result, rec *telemetry.Recorder) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	stats, _ := cmd.Flags().GetBool("stats")

	var dst io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}

	w, err := output.NewWriter(dst, output.Format(format))
	if err != nil {
		return err
	}
	if err := w.Write(res); err != nil {
		return err
	}
	if stats {
		if err := appendStats(w, rec); err != nil {
			return err
		}
	}
	return w.Close()
}

// appendStats writes the per-provider attempt aggregates recorded
// during the run after the extraction result itself.
func appendStats(w output.Writer, rec *telemetry.Recorder) error {
	for _, name := range rec.Providers() {
		if err := w.Write(rec.Report(name)); err != nil {
			return err
		}
	}
	return nil
}

func reportDate(cmd *cobra.Command) time.Time {
	raw, _ := cmd.Flags().GetString("report-date")
	if raw == "" {
		return time.Now()
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		logger.Warn("invalid report date, using today", "value", raw)
		return time.Now()
	}
	return d
}

func mustInt64(cmd *cobra.Command, name string) int64 {
	v, _ := cmd.Flags().GetInt64(name)
	return v
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

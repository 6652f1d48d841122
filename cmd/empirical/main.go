package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"scfstats/internal/config"
	"scfstats/internal/empirical"
	"scfstats/internal/exporter"
	"scfstats/internal/infrastructure"
	"scfstats/internal/scfdata"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type options struct {
	recordsPath  string
	balancesPath string
	outDir       string
	variant      string
	adjustInfl   bool
	trace        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.recordsPath, "records", "", "path to the SCF summary extract (.xlsx or .csv)")
	flag.StringVar(&opts.balancesPath, "balances", "", "path to the credit-card balance answer table (optional)")
	flag.StringVar(&opts.outDir, "out", "", "output directory for result CSV files (defaults to configured reports dir)")
	flag.StringVar(&opts.variant, "variant", "", "wealth variant: kaplan or installment (overrides config)")
	flag.BoolVar(&opts.adjustInfl, "adjust-inflation", false, "deflate dollar fields by the configured inflation factor")
	flag.BoolVar(&opts.trace, "trace", false, "emit pipeline spans to stderr")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.recordsPath == "" {
		return fmt.Errorf("missing required -records flag")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	otelCfg := infrastructure.DefaultOTelConfig(Version)
	otelCfg.EnableTracing = opts.trace
	if opts.trace {
		otelCfg.TraceWriter = os.Stderr
	}
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.Paths.ReportsDir
	}

	params, err := buildParams(cfg.Analysis, opts.variant)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting empirical statistics run",
		slog.String("version", Version),
		slog.String("records", opts.recordsPath),
		slog.String("balances", opts.balancesPath),
		slog.String("out_dir", outDir),
		slog.String("variant", string(params.Variant)),
		slog.Bool("adjust_inflation", opts.adjustInfl))

	records, err := scfdata.LoadRecords(opts.recordsPath)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	logger.InfoContext(ctx, "extract loaded", slog.Int("records", len(records)))

	var answers []scfdata.BalanceAnswer
	if opts.balancesPath != "" {
		answers, err = scfdata.LoadBalanceAnswers(opts.balancesPath)
		if err != nil {
			return fmt.Errorf("load balance answers: %w", err)
		}
		logger.InfoContext(ctx, "balance answers loaded", slog.Int("answers", len(answers)))
	}

	if opts.adjustInfl {
		records, err = scfdata.AdjustInflation(records, cfg.Analysis.InflationFactor)
		if err != nil {
			return fmt.Errorf("adjust inflation: %w", err)
		}
		logger.InfoContext(ctx, "dollar fields deflated",
			slog.Float64("factor", cfg.Analysis.InflationFactor))
	}

	calc := empirical.NewCalculator(params, logger)
	results, err := calc.Run(ctx, records, answers)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Results are complete at this point; only now touch the filesystem.
	exp := exporter.NewResultsExporter(outDir, logger)
	if err := exp.ExportAll(results); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	logger.InfoContext(ctx, "run complete",
		slog.Int("surviving_units", results.SurvivingUnits),
		slog.String("out_dir", outDir))
	return nil
}

// buildParams converts the analysis configuration to engine parameters,
// applying the command-line variant override if present.
func buildParams(cfg config.AnalysisConfig, variantOverride string) (empirical.AnalysisParams, error) {
	name := cfg.WealthVariant
	if variantOverride != "" {
		name = variantOverride
	}
	variant, err := empirical.ParseWealthVariant(name)
	if err != nil {
		return empirical.AnalysisParams{}, err
	}

	breaks := make([]float64, len(cfg.PercentileBreaks))
	copy(breaks, cfg.PercentileBreaks)

	return empirical.AnalysisParams{
		MinAge:            cfg.MinAge,
		MaxAge:            cfg.MaxAge,
		TailTrimThreshold: cfg.TailTrimThreshold,
		CashMultiplier:    cfg.CashMultiplier,
		NewbornAge:        cfg.NewbornAge,
		Variant:           variant,
		PercentileBreaks:  breaks,
	}, nil
}

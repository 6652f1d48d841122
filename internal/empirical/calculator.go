package empirical

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scfstats/internal/errors"
	"scfstats/internal/scfdata"
)

var validate = validator.New()

// Validate checks the analysis parameters before a run.
func (p AnalysisParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.NewConfigError("invalid analysis parameters", err)
	}
	return nil
}

// Calculator orchestrates the empirical pipeline: balance merge,
// implicate aggregation, sample selection, wealth construction, and the
// weighted statistics over the surviving population. Each stage is a
// pure function of the previous stage's snapshot; the calculator only
// sequences them and adds logging and tracing.
type Calculator struct {
	params AnalysisParams
	logger *slog.Logger
	tracer trace.Tracer
}

// NewCalculator creates a calculator with the given parameters.
func NewCalculator(params AnalysisParams, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		params: params,
		logger: logger,
		tracer: otel.Tracer("scfstats"),
	}
}

// Run executes the full pipeline over the loaded input tables and
// returns the complete Results. There is no partial-success mode: any
// stage failure aborts before any output is produced.
func (c *Calculator) Run(ctx context.Context, records []scfdata.RawRecord, answers []scfdata.BalanceAnswer) (*Results, error) {
	if err := c.params.Validate(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "starting empirical pipeline",
		"records", len(records),
		"balance_answers", len(answers),
		"variant", string(c.params.Variant),
	)

	ctx, span := c.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("variant", string(c.params.Variant))))
	defer span.End()

	merged, err := runStage(ctx, c, "merge_balances", func() ([]scfdata.RawRecord, error) {
		return scfdata.MergeBalances(records, answers)
	})
	if err != nil {
		return nil, c.fail(ctx, span, "merge balances", err)
	}

	households, err := runStage(ctx, c, "aggregate_implicates", func() ([]scfdata.Household, error) {
		return scfdata.AggregateImplicates(merged)
	})
	if err != nil {
		return nil, c.fail(ctx, span, "aggregate implicates", err)
	}
	c.logger.InfoContext(ctx, "implicates aggregated", "households", len(households))

	inDomain, err := runStage(ctx, c, "filter_domain", func() ([]scfdata.Household, error) {
		return FilterDomain(households, c.params), nil
	})
	if err != nil {
		return nil, c.fail(ctx, span, "filter domain", err)
	}
	c.logger.InfoContext(ctx, "domain filter applied",
		"kept", len(inDomain),
		"dropped", len(households)-len(inDomain),
	)

	trimmed, err := runStage(ctx, c, "trim_income_tail", func() ([]scfdata.Household, error) {
		return TrimIncomeTail(inDomain, c.params.TailTrimThreshold)
	})
	if err != nil {
		return nil, c.fail(ctx, span, "trim income tail", err)
	}
	c.logger.InfoContext(ctx, "income tail trimmed",
		"kept", len(trimmed),
		"dropped", len(inDomain)-len(trimmed),
		"threshold", c.params.TailTrimThreshold,
	)

	units, err := runStage(ctx, c, "build_units", func() ([]Unit, error) {
		return BuildUnits(trimmed, c.params)
	})
	if err != nil {
		return nil, c.fail(ctx, span, "build units", err)
	}
	c.logger.InfoContext(ctx, "units constructed",
		"surviving", len(units),
		"negative_wealth_dropped", len(trimmed)-len(units),
	)

	results, err := c.computeStatistics(ctx, units)
	if err != nil {
		return nil, c.fail(ctx, span, "compute statistics", err)
	}

	span.SetStatus(codes.Ok, "")
	c.logger.InfoContext(ctx, "empirical pipeline completed",
		"surviving_units", results.SurvivingUnits,
		"pooled_lorenz_points", len(results.PooledLorenz),
	)
	return results, nil
}

// computeStatistics derives every output statistic from the final
// surviving unit set.
func (c *Calculator) computeStatistics(ctx context.Context, units []Unit) (*Results, error) {
	ctx, span := c.tracer.Start(ctx, "pipeline.statistics")
	defer span.End()

	pop, err := NewPopulation(units)
	if err != nil {
		return nil, err
	}

	popShares, err := GroupShares(pop)
	if err != nil {
		return nil, err
	}
	wealthShares, err := GroupWealthShares(pop)
	if err != nil {
		return nil, err
	}

	pooledLorenz, err := LorenzCurve(pop)
	if err != nil {
		return nil, err
	}
	pooledPercentiles, err := readPercentileShares(pooledLorenz, c.params.PercentileBreaks)
	if err != nil {
		return nil, err
	}

	groupLorenz, err := LorenzCurveByGroup(pop)
	if err != nil {
		return nil, err
	}

	quartiles, err := WealthQuartileShares(pop)
	if err != nil {
		return nil, err
	}

	results := &Results{
		Variant:                c.params.Variant,
		SurvivingUnits:         len(units),
		PooledLorenz:           pooledLorenz,
		GroupLorenz:            groupLorenz,
		PooledPercentileShares: pooledPercentiles,
		Quartiles:              quartiles,
	}

	for _, g := range Groups {
		moments, err := LogIncomeMoments(pop, g, c.params.NewbornAge)
		if err != nil {
			return nil, fmt.Errorf("income moments for %s: %w", g, err)
		}
		median, err := MedianWealthToIncome(pop, g)
		if err != nil {
			return nil, fmt.Errorf("median ratio for %s: %w", g, err)
		}

		groupCurve := groupPoints(groupLorenz, g)
		groupPercentiles, err := readPercentileShares(groupCurve, c.params.PercentileBreaks)
		if err != nil {
			return nil, fmt.Errorf("percentile read-off for %s: %w", g, err)
		}

		results.Groups = append(results.Groups, GroupStats{
			Group:            g,
			PopulationShare:  popShares[g],
			WealthShare:      wealthShares[g],
			Moments:          moments,
			Median:           median,
			PercentileShares: groupPercentiles,
		})

		c.logger.DebugContext(ctx, "group statistics computed",
			"group", g.String(),
			"population_share_pct", popShares[g].DisplayPct,
			"wealth_share_pct", wealthShares[g].DisplayPct,
		)
	}

	return results, nil
}

// groupPoints extracts one group's sequence from the concatenated
// per-group Lorenz points.
func groupPoints(points []LorenzPoint, g EducationGroup) []LorenzPoint {
	var out []LorenzPoint
	for _, p := range points {
		if p.Group == g {
			out = append(out, p)
		}
	}
	return out
}

// runStage wraps a stage in a span so failures are attributed to the
// stage that produced them.
func runStage[T any](ctx context.Context, c *Calculator, name string, fn func() (T, error)) (T, error) {
	_, span := c.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	out, err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

// fail records the failure on the pipeline span and wraps the error with
// the failing stage.
func (c *Calculator) fail(ctx context.Context, span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.ErrorContext(ctx, "pipeline stage failed", "stage", stage, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}
